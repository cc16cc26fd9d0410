package s3path_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/s3path"
)

func TestValidBucketName(t *testing.T) {
	for _, ok := range []string{"abc", "a-b.c", "123"} {
		assert.True(t, s3path.ValidBucketName(ok), ok)
	}
	for _, bad := range []string{"ab", "A", "-a", "a-", "1.2.3.4", "xn--abc"} {
		assert.False(t, s3path.ValidBucketName(bad), bad)
	}
}

func TestParseRoot(t *testing.T) {
	p, err := s3path.Parse("/")
	require.NoError(t, err)
	assert.Equal(t, s3path.KindRoot, p.Kind)
}

func TestParseBucket(t *testing.T) {
	p, err := s3path.Parse("/my-bucket")
	require.NoError(t, err)
	assert.Equal(t, s3path.KindBucket, p.Kind)
	assert.Equal(t, "my-bucket", p.Bucket)

	p, err = s3path.Parse("/my-bucket/")
	require.NoError(t, err)
	assert.Equal(t, s3path.KindBucket, p.Kind)
}

func TestParseObject(t *testing.T) {
	p, err := s3path.Parse("/my-bucket/a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, s3path.KindObject, p.Kind)
	assert.Equal(t, "my-bucket", p.Bucket)
	assert.Equal(t, "a/b/c.txt", p.Key)
}

func TestParseInvalidBucketName(t *testing.T) {
	_, err := s3path.Parse("/AB/key")
	require.Error(t, err)
	var pe *s3path.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, s3path.ErrInvalidBucketName, pe.Kind)
}

func TestParseKeyTooLong(t *testing.T) {
	key := strings.Repeat("a", 1025)
	_, err := s3path.Parse("/my-bucket/" + key)
	require.Error(t, err)
	var pe *s3path.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, s3path.ErrKeyTooLong, pe.Kind)

	okKey := strings.Repeat("a", 1024)
	p, err := s3path.Parse("/my-bucket/" + okKey)
	require.NoError(t, err)
	assert.Equal(t, s3path.KindObject, p.Kind)
}

func TestParseTotal(t *testing.T) {
	// Parse must reject or accept, never panic, across a range of inputs.
	inputs := []string{"", "no-leading-slash", "/", "/b", "/b/", "/b/k", "/AB", "//", "/b//k"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = s3path.Parse(in)
		})
	}
}
