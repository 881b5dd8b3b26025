// Package logger provides a structured logging facility based on Zap.
//
// A debug level selects zap's development configuration; other levels use the
// production configuration at that level. Format picks console or json encoding.
//
// # Context
//
// WithRun tags every entry with the run id that also names the diff file, and
// WithTable adds the job and table being compared, so all lines of one table
// can be grepped together.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l := logger.WithTable(logger.WithRun(log, runID), "by_id", "users")
//	l.Info("table compared", zap.Int("windows", 3))
package logger
