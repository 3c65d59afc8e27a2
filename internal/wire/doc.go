// Package wire defines the JSON shapes exchanged with feeds, downstream
// consumers and HTTP clients.
//
// InboundPricing is what vendors and API callers send. OutboundPricing is what
// the board publishes and returns from queries. ErrorResult is the HTTP error
// body. DateTime carries a zone-less local date-time in ISO-8601 form.
package wire
