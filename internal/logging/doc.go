// Package logging provides structured logging for elitectl.
//
// It wraps Go's log/slog package to write JSON lines to a debug.log file in
// the state directory (or stderr when no directory is given). Child loggers
// carry persistent attributes such as the process session id, the component
// name and the task phase:
//
//	logger, err := logging.NewLogger(stateDir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	log := logger.WithSession(id).WithComponent("controller")
//	log.Info("task started", "target", "+62 812 3456 7890")
//
// Use [NopLogger] in tests.
package logging
