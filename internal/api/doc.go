// Package api exposes the pricing board over HTTP using gin.
//
// Routes, relative to the configured base path:
//
//	POST /pricing                          register a price
//	GET  /pricing/instrument/:instrumentId current prices for an instrument
//	GET  /pricing/vendor/:vendorId         current prices from a vendor
//	GET  /stream                           WebSocket feed of published prices
//
// plus /health and the metrics path at the root. Errors are returned as
// wire.ErrorResult bodies.
package api
