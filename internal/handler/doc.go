// Package handler contains the HTTP handlers for the public API. Handlers
// parse and validate requests, delegate to the service layer, and map
// application errors onto HTTP responses.
package handler
