// Package app wires the application together: configuration, logging,
// the SQLite reader, the consolidation pipeline, the analytics services
// and the HTTP server with its middleware chain. It owns the server
// lifecycle including graceful shutdown.
package app
