// Package pricing implements price registration and lookup on top of a
// Repository.
//
// Responsibilities:
//   - Assign a fresh PricingID to every record entering the board (Enricher)
//   - Validate records and reject them with every defect listed
//   - Store accepted records and serve per-instrument and per-vendor reads
package pricing
