// Package logging configures the slog JSON logger shared by dripd and dripctl.
//
// Every record is JSON on stderr and carries the binary name as "module" and
// its build version as "version". DEBUG adds the source location, which the
// optimizer uses for per-plant candidate counts and search statistics.
//
// The level comes from LOG_LEVEL for the daemon and from --log-level (or
// DRIPCTL_LOG_LEVEL) for the CLI. Names are case-insensitive: debug, info,
// warn or warning, and error. Anything else falls back to info.
//
//	LOG_LEVEL=debug dripd
//	dripctl --log-level debug optimize --input garden.yaml
//
// Installing the default logger:
//
//	logging.SetDefaultStructuredLogger("dripd", version)
//	slog.Info("optimization finished", "plants", len(req.Plants), "emitters", resp.TotalDrippersUsed)
//
// With an explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("dripctl", version, "warn")
//
// NewLogLogger bridges code that expects a *log.Logger, such as
// http.Server.ErrorLog, onto the default slog handler:
//
//	srv.ErrorLog = logging.NewLogLogger(slog.LevelError, false)
package logging
