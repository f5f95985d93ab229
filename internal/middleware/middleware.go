// Package middleware holds the global and route-specific Echo middleware:
// request ids, request-scoped logging, CORS, security headers, tracing,
// panic recovery, optional Clerk authentication and the global error handler.
package middleware
