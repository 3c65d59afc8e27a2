// Package model defines the pricing domain types shared across the board.
//
// Conventions:
//   - Identifiers are string-backed. A nil pointer means "not provided",
//     an empty string means "blank". Both are reported by Validate.
//   - Prices are arbitrary-precision decimals (shopspring/decimal).
//   - Price timestamps are wall-clock date+time values with no zone semantics.
//     They are carried as time.Time in UTC and only the wall clock is used.
//   - Pricing values are never mutated in place; use the With* copy methods.
package model
