package database

import "strings"

// MaxTracedQuery caps the statement text attached to spans.
const MaxTracedQuery = 512

// TraceQuery collapses whitespace so multi-line statements read as one line
// in span attributes, truncating past MaxTracedQuery bytes.
func TraceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= MaxTracedQuery {
		return query
	}
	return query[:MaxTracedQuery] + "..."
}
