package httpkit

import (
	"fmt"
	"strconv"
)

// PresignedParams is the set of X-Amz-* query parameters carried by a
// presigned-URL request.
type PresignedParams struct {
	Algorithm     string
	Credential    Credential
	Date          AmzDate
	Expires       int64
	SignedHeaders []string // lowercase, in header order (not required sorted)
	Signature     string
}

// MaxPresignedExpires is AWS's cap on X-Amz-Expires, in seconds (7 days).
const MaxPresignedExpires = 604800

// ExtractPresignedParams reads the six presigned-URL query parameters from
// an OrderedQs. It returns an error if any are missing or malformed, or if
// X-Amz-Expires exceeds MaxPresignedExpires.
func ExtractPresignedParams(q OrderedQs) (PresignedParams, error) {
	algorithm, ok := q.Get("X-Amz-Algorithm")
	if !ok || algorithm != "AWS4-HMAC-SHA256" {
		return PresignedParams{}, fmt.Errorf("httpkit: missing or unsupported X-Amz-Algorithm")
	}
	credRaw, ok := q.Get("X-Amz-Credential")
	if !ok {
		return PresignedParams{}, fmt.Errorf("httpkit: missing X-Amz-Credential")
	}
	cred, err := parseCredential(credRaw)
	if err != nil {
		return PresignedParams{}, err
	}
	dateRaw, ok := q.Get("X-Amz-Date")
	if !ok {
		return PresignedParams{}, fmt.Errorf("httpkit: missing X-Amz-Date")
	}
	date, err := ParseAmzDate(dateRaw)
	if err != nil {
		return PresignedParams{}, err
	}
	expiresRaw, ok := q.Get("X-Amz-Expires")
	if !ok {
		return PresignedParams{}, fmt.Errorf("httpkit: missing X-Amz-Expires")
	}
	expires, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil || expires < 0 || expires > MaxPresignedExpires {
		return PresignedParams{}, fmt.Errorf("httpkit: invalid X-Amz-Expires %q", expiresRaw)
	}
	signedHeadersRaw, ok := q.Get("X-Amz-SignedHeaders")
	if !ok || signedHeadersRaw == "" {
		return PresignedParams{}, fmt.Errorf("httpkit: missing X-Amz-SignedHeaders")
	}
	names := splitSemicolon(signedHeadersRaw)
	signature, ok := q.Get("X-Amz-Signature")
	if !ok || !isLowerHex(signature, 64) {
		return PresignedParams{}, fmt.Errorf("httpkit: missing or malformed X-Amz-Signature")
	}
	return PresignedParams{
		Algorithm:     algorithm,
		Credential:    cred,
		Date:          date,
		Expires:       expires,
		SignedHeaders: names,
		Signature:     signature,
	}, nil
}

func splitSemicolon(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
