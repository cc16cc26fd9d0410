// Package sigv4 implements the AWS Signature Version 4 canonicalizer and
// crypto primitives shared by header, presigned, and POST-policy
// verification, and by the aws-chunked decoder's per-chunk signature
// check.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const (
	Algorithm      = "AWS4-HMAC-SHA256"
	ChunkAlgorithm = "AWS4-HMAC-SHA256-PAYLOAD"
	ServiceName    = "s3"
	Termination    = "aws4_request"

	StreamingPayloadToken = "STREAMING-AWS4-HMAC-SHA256-PAYLOAD"
	UnsignedPayloadToken  = "UNSIGNED-PAYLOAD"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// EmptyStringSHA256 is sha256("") hex-encoded, used both as the canonical
// request's payload token for bodyless requests and as the final line of
// the terminating chunk's string-to-sign.
var EmptyStringSHA256 = SHA256Hex(nil)

// HMACSHA256 computes HMAC-SHA256 of data keyed by key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// DeriveSigningKey runs the AWS4 HMAC chain:
// kDate -> kRegion -> kService -> kSigning.
func DeriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := HMACSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := HMACSHA256(kDate, []byte(region))
	kService := HMACSHA256(kRegion, []byte(service))
	return HMACSHA256(kService, []byte(Termination))
}

// Sign computes hex(HMAC(signingKey, stringToSign)).
func Sign(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(HMACSHA256(signingKey, []byte(stringToSign)))
}

// EqualHex reports whether two lowercase-hex signatures are byte-equal,
// using a constant-time comparison so the check doesn't leak timing
// information about how many leading bytes matched.
func EqualHex(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
