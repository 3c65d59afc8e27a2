// Package pipeline turns vendor feed messages into published price updates.
//
// Each feed is consumed by its own goroutine. A message is decoded,
// attributed to the feed's vendor and handed to Process, which is also the
// entry point for registrations arriving over HTTP:
//
//	decode -> tag vendor -> Process(enrich -> register -> project -> publish)
//
// Anything that fails is copied verbatim to the dead-letter topic with the
// failure reason attached. A feed message is committed only after it has
// been published or dead-lettered.
package pipeline
