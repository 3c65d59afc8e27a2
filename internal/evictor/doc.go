// Package evictor runs the store's age-based eviction once a day.
//
// The run time is a local time of day (default 00:00). Runs happen regardless
// of traffic; an optional run at start-up clears anything that aged out while
// the process was down.
package evictor
