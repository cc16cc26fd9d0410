package sigv4

import (
	"strings"

	"github.com/ethanadams/s3core/internal/httpkit"
)

// Scope re-emits "<yyyymmdd>/<region>/s3/aws4_request".
func Scope(dateStamp, region string) string {
	return dateStamp + "/" + region + "/" + ServiceName + "/" + Termination
}

// StringToSign builds the AWS4-HMAC-SHA256 string-to-sign (spec.md §4.1).
func StringToSign(date httpkit.AmzDate, scope, canonicalRequest string) string {
	return strings.Join([]string{
		Algorithm,
		date.ISO8601(),
		scope,
		SHA256Hex([]byte(canonicalRequest)),
	}, "\n")
}

// ChunkStringToSign builds the string-to-sign for one aws-chunked chunk
// (spec.md §4.1 "Chunk string-to-sign"). chunkBytes is the raw payload of
// the chunk being verified; pass nil/empty for the terminating chunk.
func ChunkStringToSign(date httpkit.AmzDate, scope, prevSignature string, chunkBytes []byte) string {
	return strings.Join([]string{
		ChunkAlgorithm,
		date.ISO8601(),
		scope,
		prevSignature,
		EmptyStringSHA256,
		SHA256Hex(chunkBytes),
	}, "\n")
}

// PostPolicyStringToSign is the POST-policy variant: the string-to-sign
// is simply the raw base64 policy value (spec.md §4.4).
func PostPolicyStringToSign(policy string) string {
	return policy
}
