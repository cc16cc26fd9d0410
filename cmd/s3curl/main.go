// s3curl prints a signed curl command for one S3 operation, the same
// role the teacher's awsv4-backed tool played, now signing against this
// core's own internal/sigv4 so the two halves of the repo stay
// verifiably compatible with each other.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/sigv4"
)

func main() {
	endpoint := flag.String("endpoint", os.Getenv("S3_ENDPOINT"), "S3 endpoint URL")
	accessKey := flag.String("access-key", os.Getenv("S3_ACCESS_KEY"), "S3 access key")
	secretKey := flag.String("secret-key", os.Getenv("S3_SECRET_KEY"), "S3 secret key")
	region := flag.String("region", "us-east-1", "AWS region")
	bucket := flag.String("bucket", "", "Bucket name")
	key := flag.String("key", "test-file.txt", "Object key")
	op := flag.String("op", "upload", "Operation: upload, download, delete, head, list")
	data := flag.String("data", "Hello, S3!", "Data to upload (for upload op)")
	size := flag.Int("size", 0, "Random data size in bytes (overrides -data)")
	flag.Parse()

	if *endpoint == "" || *accessKey == "" || *secretKey == "" || *bucket == "" {
		fmt.Fprintln(os.Stderr, "Usage: s3curl -endpoint URL -access-key KEY -secret-key SECRET -bucket BUCKET [-op upload|download|delete|head|list] [-key filename] [-data content]")
		fmt.Fprintln(os.Stderr, "\nEnvironment variables: S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY")
		fmt.Fprintln(os.Stderr, "\nExamples:")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op upload -key test.txt -data 'Hello World'")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op download -key test.txt")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op delete -key test.txt")
		fmt.Fprintln(os.Stderr, "  s3curl -bucket mybucket -op list")
		os.Exit(1)
	}

	var method string
	var payload []byte
	var uri string

	switch *op {
	case "upload":
		method = http.MethodPut
		if *size > 0 {
			payload = make([]byte, *size)
			if _, err := rand.Read(payload); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating random payload: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "# Generated %d bytes of random data\n", *size)
		} else {
			payload = []byte(*data)
		}
		uri = fmt.Sprintf("/%s/%s", *bucket, *key)
	case "download":
		method = http.MethodGet
		uri = fmt.Sprintf("/%s/%s", *bucket, *key)
	case "head":
		method = http.MethodHead
		uri = fmt.Sprintf("/%s/%s", *bucket, *key)
	case "delete":
		method = http.MethodDelete
		uri = fmt.Sprintf("/%s/%s", *bucket, *key)
	case "list":
		method = http.MethodGet
		uri = fmt.Sprintf("/%s", *bucket)
	default:
		fmt.Fprintf(os.Stderr, "Unknown operation: %s\n", *op)
		os.Exit(1)
	}

	parsedEndpoint, err := url.Parse(strings.TrimSuffix(*endpoint, "/"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing endpoint: %v\n", err)
		os.Exit(1)
	}

	headers := http.Header{}
	headers.Set("Host", parsedEndpoint.Host)
	headers.Set("X-Amz-Date", time.Now().UTC().Format("20060102T150405Z"))
	headers.Set("X-Amz-Content-Sha256", sigv4.SHA256Hex(payload))
	if payload != nil {
		headers.Set("Content-Type", "application/octet-stream")
		headers.Set("Content-Length", strconv.Itoa(len(payload)))
	}

	date, err := httpkit.ParseAmzDate(headers.Get("X-Amz-Date"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building request date: %v\n", err)
		os.Exit(1)
	}

	canonicalRequest, signedHeaders := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
		Method:       method,
		Path:         sigv4.CanonicalURI(uri),
		Query:        httpkit.NewOrderedQs(url.Values{}),
		Headers:      httpkit.NewOrderedHeaders(headers),
		PayloadToken: headers.Get("X-Amz-Content-Sha256"),
	})
	scope := sigv4.Scope(date.DateStamp(), *region)
	stringToSign := sigv4.StringToSign(date, scope, canonicalRequest)
	signature := sigv4.ComputeSignature(*secretKey, date.DateStamp(), *region, stringToSign)

	headers.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		*accessKey, scope, signedHeaders, signature))

	fullURL := parsedEndpoint.String() + uri

	fmt.Printf("curl -v -X %s \\\n", method)
	for _, name := range []string{"Host", "X-Amz-Date", "X-Amz-Content-Sha256", "Content-Type", "Content-Length", "Authorization"} {
		if v := headers.Get(name); v != "" {
			fmt.Printf("  -H '%s: %s' \\\n", name, v)
		}
	}
	if payload != nil {
		if *size > 0 {
			fmt.Printf("  --data-binary \"$(dd if=/dev/urandom bs=%d count=1 2>/dev/null)\" \\\n", *size)
		} else {
			fmt.Printf("  --data-binary '%s' \\\n", *data)
		}
	}
	fmt.Printf("  '%s'\n", fullURL)
}
