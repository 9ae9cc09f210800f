// Package app wires the application together: configuration, logging,
// the fetch layer, business services and the HTTP server.
//
// The Application struct owns every long-lived dependency. New builds
// the full graph from a config.Config, Run starts the server and blocks
// until an interrupt signal, and Stop drains in-flight requests before
// the process exits.
package app
