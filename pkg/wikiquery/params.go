// Package wikiquery builds MediaWiki Query API requests out of independently
// configured sub-queries, threads continuation tokens back into follow-up
// requests and decodes the JSON replies into typed records.
//
// Find documentation for the individual modules at
// https://www.mediawiki.org/wiki/API:Query.
package wikiquery

import (
	"sort"
	"strings"
)

// ValueSeparator joins multiple values written under the same parameter.
const ValueSeparator = "|"

// Params is the flat parameter table serialized into a request's query
// string. All sub-queries attached to one Query write into the same table.
type Params map[string]string

// Set writes value under key, replacing whatever was there.
func (p Params) Set(key, value string) {
	p[key] = value
}

// Append writes value under key. An existing value is never replaced;
// the new value is joined onto it with ValueSeparator.
func (p Params) Append(key, value string) {
	if old, ok := p[key]; ok {
		p[key] = old + ValueSeparator + value
		return
	}
	p[key] = value
}

// Get returns the value stored under key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// SetDefault writes value under key only if key is absent.
func (p Params) SetDefault(key, value string) {
	if _, ok := p[key]; !ok {
		p[key] = value
	}
}

// Encode joins every key=value pair with "&", sorted by key. Values are
// written verbatim: callers pass values that are already percent-encoded.
func (p Params) Encode() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p[k])
	}
	return b.String()
}
