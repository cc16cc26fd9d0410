package sigv4

import (
	"strings"

	"github.com/ethanadams/s3core/internal/httpkit"
)

// uriEncode percent-encodes s per AWS's canonical-URI rules: bytes in
// A-Za-z0-9_-~. pass through unescaped; '/' passes through unescaped
// only when encodeSlash is false (used for the path, not the query
// string); everything else becomes %HH with uppercase hex.
func uriEncode(s string, encodeSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	const hex = "0123456789ABCDEF"
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '_' || c == '-' || c == '~' || c == '.':
			b.WriteByte(c)
		case c == '/' && !encodeSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xF])
		}
	}
	return b.String()
}

// CanonicalURI re-encodes an already-decoded request path per spec.md
// §4.1 rule 2: unreserved bytes pass through, '/' passes through, all
// else percent-encoded.
func CanonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	return uriEncode(path, false)
}

// CanonicalQueryString builds the canonical query string from an
// OrderedQs that has already been sorted by (name, value) and, for
// presigned verification, had X-Amz-Signature removed by the caller.
func CanonicalQueryString(q httpkit.OrderedQs) string {
	pairs := q.All()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = uriEncode(p.Name, true) + "=" + uriEncode(p.Value, true)
	}
	return strings.Join(parts, "&")
}

// CanonicalHeaders builds the canonical headers block and the
// signed-headers string from every header in h other than
// "authorization" and "user-agent", per spec.md §4.1 rule 4/5.
func CanonicalHeaders(h httpkit.OrderedHeaders) (canonicalHeaders, signedHeaders string) {
	var names []string
	var block strings.Builder
	for _, pair := range h.All() {
		if pair.Name == "authorization" || pair.Name == "user-agent" {
			continue
		}
		names = append(names, pair.Name)
		block.WriteString(pair.Name)
		block.WriteByte(':')
		block.WriteString(strings.TrimSpace(pair.Value))
		block.WriteByte('\n')
	}
	return block.String(), strings.Join(names, ";")
}

// SignedHeadersBlock builds the canonical headers block and the
// semicolon-joined signed-headers string, restricted to exactly the
// given signed-headers list. The list arrives in whatever order the
// Authorization header or presigned query string happened to list it
// (neither is required to arrive pre-sorted), so this projects it
// through h's already name-sorted pairs and iterates that projection,
// rather than the caller's order, to get spec.md §4.1 rule 4's
// ascending-name order unconditionally.
func SignedHeadersBlock(h httpkit.OrderedHeaders, signedHeaders []string) (block, joined string) {
	projected := h.Project(signedHeaders)
	var b strings.Builder
	var names []string
	for _, pair := range projected.All() {
		b.WriteString(pair.Name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(pair.Value))
		b.WriteByte('\n')
		if len(names) == 0 || names[len(names)-1] != pair.Name {
			names = append(names, pair.Name)
		}
	}
	return b.String(), strings.Join(names, ";")
}

// CanonicalRequest builds the full canonical request string (spec.md
// §4.1): method, canonical URI, canonical query string, canonical
// headers, signed headers, payload token — joined with "\n".
func CanonicalRequest(method, path string, q httpkit.OrderedQs, headersBlock, signedHeaders, payloadToken string) string {
	return strings.Join([]string{
		strings.ToUpper(method),
		CanonicalURI(path),
		CanonicalQueryString(q),
		headersBlock,
		signedHeaders,
		payloadToken,
	}, "\n")
}
