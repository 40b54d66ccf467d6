// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every StructuredError carries an ErrorCode. The optimizer reports its
// failures with the domain codes NO_PLANT_SOLUTION, GLOBAL_INFEASIBLE,
// SEARCH_TIMEOUT and CANCELED, and the HTTP server maps codes to status
// codes. Use CodeOf or HasCode to classify an error anywhere in a wrap chain.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSearchTimeout,
//	    "optimization exceeded its time budget",
//	    ctx.Err(),
//	    map[string]any{
//	        "nodes_explored": explored,
//	        "budget": budget.String(),
//	    },
//	)
//
//	if errors.HasCode(err, errors.ErrCodeSearchTimeout) {
//	    // retry with a larger budget
//	}
package errors
