// Package cli implements the command-line interface of the drip irrigation
// optimizer, dripctl.
//
// # Commands
//
// optimize - Solve an optimization request:
//
//	dripctl optimize --input request.yaml [--timeout 2m] [--workers N] [--output FILE] [--format yaml|json|table|summary]
//
// Loads a request from a file, an HTTP(S) URL or stdin (-) and prints an
// OptimizationReport holding the request, the response and search statistics.
// The summary format prints a short human readable report with numbers
// formatted for --locale.
//
// candidates - Inspect one plant's candidate set:
//
//	dripctl candidates --input request.yaml --plant plant_1 [--limit N]
//
// Lists the plant's feasible allocations in search order together with the
// irrigation time window of each.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment
//
// Every flag can also be set through a DRIPCTL_ prefixed environment variable,
// for example DRIPCTL_INPUT, DRIPCTL_FORMAT, DRIPCTL_TIMEOUT or DRIPCTL_LOG_LEVEL.
//
// # Exit Status
//
// dripctl exits 0 on success and 1 on any error. Optimization failures print
// the structured error code (NO_PLANT_SOLUTION, GLOBAL_INFEASIBLE,
// SEARCH_TIMEOUT) to stderr.
package cli
