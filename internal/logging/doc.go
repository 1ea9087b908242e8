// Package logging provides structured logging using uber/zap.
//
// The library is quiet by default: a client built without an explicit logger
// gets a no-op one. The bundled automation commands use the development
// configuration for human-readable console output.
//
// Example Usage:
//
//	logger := logging.NewDevelopment()
//	logger.Info("connected", zap.String("addr", addr))
package logging
