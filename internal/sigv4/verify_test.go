package sigv4_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/sigv4"
)

// TestGetObjectReferenceVector reproduces the AWS SigV4 documentation's
// canonical GetObject example (spec.md §8 scenario 1).
func TestGetObjectReferenceVector(t *testing.T) {
	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	const region = "us-east-1"

	h := http.Header{}
	h.Set("Host", "examplebucket.s3.amazonaws.com")
	h.Set("Range", "bytes=0-9")
	h.Set("X-Amz-Content-Sha256", sigv4.EmptyStringSHA256)
	h.Set("X-Amz-Date", "20130524T000000Z")

	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)

	headers := httpkit.NewOrderedHeaders(h)
	query := httpkit.NewOrderedQs(url.Values{})

	canonicalRequest, signedHeaders := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
		Method:       http.MethodGet,
		Path:         "/test.txt",
		Query:        query,
		Headers:      headers,
		PayloadToken: sigv4.EmptyStringSHA256,
	})
	require.Equal(t, "host;range;x-amz-content-sha256;x-amz-date", signedHeaders)

	scope := sigv4.Scope(date.DateStamp(), region)
	stringToSign := sigv4.StringToSign(date, scope, canonicalRequest)
	signature := sigv4.ComputeSignature(secret, date.DateStamp(), region, stringToSign)

	require.Equal(t, "f0e8bdb87c964420e857bd35b5d6ed310bd44f0170aba48dd91039c6036bdb41", signature)
}

// TestPutObjectReferenceVector reproduces the AWS SigV4 documentation's
// PutObject example (spec.md §8 scenario 2).
func TestPutObjectReferenceVector(t *testing.T) {
	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	const region = "us-east-1"
	const body = "Welcome to Amazon S3."

	payloadHash := sigv4.SHA256Hex([]byte(body))

	h := http.Header{}
	h.Set("Host", "examplebucket.s3.amazonaws.com")
	h.Set("Date", "Fri, 24 May 2013 00:00:00 GMT")
	h.Set("X-Amz-Date", "20130524T000000Z")
	h.Set("X-Amz-Storage-Class", "REDUCED_REDUNDANCY")
	h.Set("X-Amz-Content-Sha256", payloadHash)

	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)

	headers := httpkit.NewOrderedHeaders(h)
	query := httpkit.NewOrderedQs(url.Values{})

	canonicalRequest, _ := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
		Method:       http.MethodPut,
		Path:         "/test$file.text",
		Query:        query,
		Headers:      headers,
		PayloadToken: payloadHash,
	})

	scope := sigv4.Scope(date.DateStamp(), region)
	stringToSign := sigv4.StringToSign(date, scope, canonicalRequest)
	signature := sigv4.ComputeSignature(secret, date.DateStamp(), region, stringToSign)

	require.Equal(t, "98ad721746da40c64f1a55b78f14c238d841ea1380cd77a1b5971af0ece108bd", signature)
}

func TestEqualHex(t *testing.T) {
	require.True(t, sigv4.EqualHex("abcd", "abcd"))
	require.False(t, sigv4.EqualHex("abcd", "abce"))
	require.False(t, sigv4.EqualHex("abcd", "abcde"))
}
