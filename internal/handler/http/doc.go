// Package http implements the HTTP transport of the auth core.
//
// It carries the session token in a cookie, translates JSON requests into
// service calls and maps service error kinds onto status codes. Tracing,
// access logging, security headers and rate limiting are handled here before
// requests reach the service layer.
package http
