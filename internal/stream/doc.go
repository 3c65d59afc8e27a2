// Package stream pushes published prices to WebSocket subscribers.
//
// A subscriber connects to the hub with optional vendor and instrument query
// parameters; only updates whose routing headers match are delivered. Each
// subscriber owns a bounded send queue. When it is full the update is
// dropped for that subscriber and counted, so one slow client never stalls
// publication.
package stream
