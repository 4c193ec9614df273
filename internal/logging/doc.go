// Package logging provides structured logging for export runs using uber/zap.
//
// Two modes are supported:
//   - Production: JSON lines on stderr, suitable for CI logs
//   - Development: colored console output with caller information
//
// Every export session derives a child logger tagged with its session id, so
// output from a batch run can be correlated per file.
//
// Example Usage:
//
//	logger, err := logging.NewRun("info", false)
//	if err != nil {
//		return err
//	}
//	logger = logger.Named("export").WithSession(sessionID)
//	logger.Info("Component exported", zap.String("target", path))
//	logger.Debug("Resource not found", zap.String("key", key))
package logging
