package broker

import (
	"sort"
	"strings"
)

// Selector matches messages whose headers equal every listed value.
// The empty selector matches everything.
type Selector map[string]string

// NewSelector builds a selector on the routing headers. Empty values are
// treated as wildcards.
func NewSelector(vendor, instrument string) Selector {
	s := Selector{}
	if vendor != "" {
		s[HeaderVendor] = vendor
	}
	if instrument != "" {
		s[HeaderInstrument] = instrument
	}
	return s
}

// Matches reports whether every selector header is present on msg with the
// same value.
func (s Selector) Matches(msg Message) bool {
	for k, v := range s {
		if msg.Headers[k] != v {
			return false
		}
	}
	return true
}

// String renders the selector as "k1=v1 AND k2=v2" in key order.
func (s Selector) String() string {
	if len(s) == 0 {
		return "*"
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + s[k]
	}
	return strings.Join(parts, " AND ")
}
