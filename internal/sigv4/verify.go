package sigv4

import (
	"github.com/ethanadams/s3core/internal/httpkit"
)

// HeaderRequest describes everything CanonicalRequest needs for the
// header-auth and presigned-URL variants.
type HeaderRequest struct {
	Method        string
	Path          string
	Query         httpkit.OrderedQs
	Headers       httpkit.OrderedHeaders
	SignedHeaders []string // nil means "every header except authorization/user-agent"
	PayloadToken  string
}

// BuildCanonicalRequest assembles the canonical request string for r,
// using the explicit SignedHeaders projection when one is supplied
// (presigned and header-auth verification both know their signed-headers
// set up front) or the "all headers" rule otherwise.
func BuildCanonicalRequest(r HeaderRequest) (canonicalRequest, signedHeaders string) {
	var headersBlock string
	if r.SignedHeaders != nil {
		headersBlock, signedHeaders = SignedHeadersBlock(r.Headers, r.SignedHeaders)
	} else {
		headersBlock, signedHeaders = CanonicalHeaders(r.Headers)
	}
	return CanonicalRequest(r.Method, r.Path, r.Query, headersBlock, signedHeaders, r.PayloadToken), signedHeaders
}

// ComputeSignature derives the signing key and signs stringToSign,
// exactly the final two steps of spec.md §4.1 shared by every variant.
func ComputeSignature(secretKey, dateStamp, region, stringToSign string) string {
	key := DeriveSigningKey(secretKey, dateStamp, region, ServiceName)
	return Sign(key, stringToSign)
}

// Verify reports whether signature matches the signature computed for
// stringToSign under secretKey/dateStamp/region.
func Verify(secretKey, dateStamp, region, stringToSign, signature string) bool {
	return EqualHex(ComputeSignature(secretKey, dateStamp, region, stringToSign), signature)
}
