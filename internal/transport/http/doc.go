// Package http contains the HTTP transport layer: chi handlers for the
// dataset, ranking, market flow, brand and export endpoints, plus the
// health probes. Handlers depend on narrow service interfaces and
// delegate error rendering to the shared ErrorHandler.
package http
