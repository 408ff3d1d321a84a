// Package logger provides structured logging for the proxy using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and context loggers that carry the per-request correlation id.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	ctx = logger.ContextWithCorrelationID(ctx, "1a2b3c4d")
//	log := logger.WithComponent("proxy").WithContext(ctx)
//	log.Info("forwarding request", logger.Fields("filename", name))
package logger
