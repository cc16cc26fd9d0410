package httpkit

import (
	"fmt"
	"net/url"
	"strings"
)

// CopySource is the parsed x-amz-copy-source header: "/bucket/key" or
// "/bucket/key?versionId=...", the latter accepted but the version id
// ignored since this core has no versioning support.
type CopySource struct {
	Bucket string
	Key    string
}

// ParseCopySource parses the x-amz-copy-source header value. AWS accepts
// both a leading-slash form ("/bucket/key") and a bare form
// ("bucket/key"); both are handled here.
func ParseCopySource(header string) (CopySource, error) {
	v := header
	if q := strings.IndexByte(v, '?'); q >= 0 {
		v = v[:q]
	}
	v = strings.TrimPrefix(v, "/")
	if v == "" {
		return CopySource{}, fmt.Errorf("httpkit: empty x-amz-copy-source")
	}
	slash := strings.IndexByte(v, '/')
	if slash <= 0 || slash == len(v)-1 {
		return CopySource{}, fmt.Errorf("httpkit: malformed x-amz-copy-source %q", header)
	}
	bucket, err := url.PathUnescape(v[:slash])
	if err != nil {
		return CopySource{}, fmt.Errorf("httpkit: malformed x-amz-copy-source bucket: %w", err)
	}
	key, err := url.PathUnescape(v[slash+1:])
	if err != nil {
		return CopySource{}, fmt.Errorf("httpkit: malformed x-amz-copy-source key: %w", err)
	}
	return CopySource{Bucket: bucket, Key: key}, nil
}
