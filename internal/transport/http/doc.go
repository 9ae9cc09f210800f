// Package http implements the HTTP request handlers for the SueldoReal web
// service. Handlers stay thin: they parse and validate the request, delegate
// to the service layer and format the response; the numeric work lives in
// internal/dataprocessing behind internal/services.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → SalaryService → pipeline
//	                                              ↓
//	HTTP Response ← render.JSON / CSV stream ←────┘
//
// Errors are transformed to RFC 7807 problem documents by the shared
// ErrorHandler from internal/errors.
package http
