// Package server provides the HTTP server for the proxy: Gin for routing,
// h2c for cleartext HTTP/2, and net/http middleware around the root mux.
//
// # Middleware
//
// Built-in middleware (server/middleware), outermost first:
//
//   - RequestID: correlation id generation and propagation
//   - Recovery: panic recovery with structured logging
//   - RequestLogger: request logging with duration tracking
//   - BodySizeLimit: request body size limits
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /alive: liveness check
//   - /ready: component readiness
//   - /info: service information
//   - /version: build version information
//   - /metrics: Prometheus metrics
package server
