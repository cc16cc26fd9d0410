// Package httpkit provides the canonical, order-sensitive views over an
// HTTP request that the SigV4 pipeline signs against: headers and query
// parameters sorted into binary-searchable slices, plus parsers for the
// handful of S3-specific header and query formats (Authorization,
// x-amz-date, x-amz-content-sha256, Range, the presigned query set).
package httpkit

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a single lowercase-name/raw-value pair.
type Header struct {
	Name  string
	Value string
}

// OrderedHeaders is an immutable, name-sorted view over a request's
// headers. Names are folded to lowercase; values are kept verbatim.
type OrderedHeaders struct {
	pairs []Header
}

// NewOrderedHeaders builds an OrderedHeaders from a standard http.Header.
// Multi-valued headers contribute one pair per value, all sharing the
// lowercase name, in the order http.Header happened to store them.
func NewOrderedHeaders(h http.Header) OrderedHeaders {
	pairs := make([]Header, 0, len(h))
	for name, values := range h {
		lname := strings.ToLower(name)
		for _, v := range values {
			pairs = append(pairs, Header{Name: lname, Value: v})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Name != pairs[j].Name {
			return pairs[i].Name < pairs[j].Name
		}
		return pairs[i].Value < pairs[j].Value
	})
	return OrderedHeaders{pairs: pairs}
}

// Get returns the first value for name (already lowercase or not; the
// lookup folds the case) and whether it was present.
func (h OrderedHeaders) Get(name string) (string, bool) {
	lname := strings.ToLower(name)
	i := sort.Search(len(h.pairs), func(i int) bool { return h.pairs[i].Name >= lname })
	if i < len(h.pairs) && h.pairs[i].Name == lname {
		return h.pairs[i].Value, true
	}
	return "", false
}

// Values returns every value stored under name, in sorted-by-value order.
func (h OrderedHeaders) Values(name string) []string {
	lname := strings.ToLower(name)
	i := sort.Search(len(h.pairs), func(i int) bool { return h.pairs[i].Name >= lname })
	var out []string
	for ; i < len(h.pairs) && h.pairs[i].Name == lname; i++ {
		out = append(out, h.pairs[i].Value)
	}
	return out
}

// All returns every (name, value) pair in sorted order.
func (h OrderedHeaders) All() []Header {
	return h.pairs
}

// Project returns the subset of headers whose name appears in names,
// preserving the sorted order of names. Used to build the canonical
// headers block for a given signed-headers list.
func (h OrderedHeaders) Project(names []string) OrderedHeaders {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = true
	}
	pairs := make([]Header, 0, len(names))
	for _, p := range h.pairs {
		if want[p.Name] {
			pairs = append(pairs, p)
		}
	}
	return OrderedHeaders{pairs: pairs}
}
