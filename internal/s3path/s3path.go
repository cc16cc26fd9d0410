// Package s3path parses and validates the bucket/key shape of an S3
// request path.
package s3path

import (
	"fmt"
	"net"
	"strings"
)

// Kind tags the three shapes a request path can take.
type Kind int

const (
	KindRoot Kind = iota
	KindBucket
	KindObject
)

// S3Path is the parsed, validated request path: Root, Bucket{Name}, or
// Object{Bucket, Key}.
type S3Path struct {
	Kind   Kind
	Bucket string
	Key    string
}

// ErrKind classifies why Parse rejected a path.
type ErrKind int

const (
	ErrInvalidPath ErrKind = iota
	ErrInvalidBucketName
	ErrKeyTooLong
)

// ParseError is returned by Parse; Kind identifies which of the three
// rejection reasons spec.md §3 applies.
type ParseError struct {
	Kind ErrKind
	Path string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrInvalidBucketName:
		return fmt.Sprintf("s3path: invalid bucket name in %q", e.Path)
	case ErrKeyTooLong:
		return fmt.Sprintf("s3path: key too long in %q", e.Path)
	default:
		return fmt.Sprintf("s3path: invalid path %q", e.Path)
	}
}

const maxKeyLength = 1024

// Parse is a total function over request paths: every input is either
// rejected with a specific ParseError.Kind, or parsed into exactly one
// S3Path variant.
func Parse(path string) (S3Path, error) {
	if !strings.HasPrefix(path, "/") {
		return S3Path{}, &ParseError{Kind: ErrInvalidPath, Path: path}
	}
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return S3Path{Kind: KindRoot}, nil
	}

	slash := strings.IndexByte(trimmed, '/')
	if slash < 0 {
		bucket := trimmed
		if !ValidBucketName(bucket) {
			return S3Path{}, &ParseError{Kind: ErrInvalidBucketName, Path: path}
		}
		return S3Path{Kind: KindBucket, Bucket: bucket}, nil
	}

	bucket := trimmed[:slash]
	key := trimmed[slash+1:]
	if !ValidBucketName(bucket) {
		return S3Path{}, &ParseError{Kind: ErrInvalidBucketName, Path: path}
	}
	if key == "" {
		// "/<bucket>/" is still a bucket-shaped path per spec.md §3.
		return S3Path{Kind: KindBucket, Bucket: bucket}, nil
	}
	if len(key) > maxKeyLength {
		return S3Path{}, &ParseError{Kind: ErrKeyTooLong, Path: path}
	}
	return S3Path{Kind: KindObject, Bucket: bucket, Key: key}, nil
}

// ValidBucketName applies spec.md §3's bucket-name invariant: 3..63
// bytes; each byte in [a-z0-9.-]; first and last bytes in [a-z0-9]; not
// parseable as an IP address; does not start with "xn--".
func ValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.HasPrefix(name, "xn--") {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '.' && c != '-' {
			return false
		}
	}
	first, last := name[0], name[len(name)-1]
	if !isAlnum(first) || !isAlnum(last) {
		return false
	}
	if net.ParseIP(name) != nil {
		return false
	}
	return true
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
