package multipart_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/multipart"
)

func TestParsePostPolicyUpload(t *testing.T) {
	const boundary = "----WebKitFormBoundaryABC"
	body := "--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"key\"\r\n\r\n" +
		"uploads/test.txt\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"policy\"\r\n\r\n" +
		"base64policydata\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"test.txt\"\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"hello world\r\n" +
		"--" + boundary + "--\r\n"

	m, err := multipart.Parse(strings.NewReader(body), boundary)
	require.NoError(t, err)

	key, ok := m.Get("key")
	require.True(t, ok)
	require.Equal(t, "uploads/test.txt", key)

	policy, ok := m.Get("policy")
	require.True(t, ok)
	require.Equal(t, "base64policydata", policy)

	require.Equal(t, "test.txt", m.FileName)
	require.Equal(t, "text/plain", m.ContentType)
	require.NotNil(t, m.File)

	content, err := io.ReadAll(m.File)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(content))
}

func TestParseLeadingCRLF(t *testing.T) {
	const boundary = "xyz"
	body := "\r\n--" + boundary + "\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"a.bin\"\r\n\r\n" +
		"payload-bytes" +
		"\r\n--" + boundary + "--\r\n"

	m, err := multipart.Parse(strings.NewReader(body), boundary)
	require.NoError(t, err)
	content, err := io.ReadAll(m.File)
	require.NoError(t, err)
	require.Equal(t, "payload-bytes", string(content))
}

func TestGetLatestWins(t *testing.T) {
	m := &multipart.Multipart{Fields: []multipart.Field{
		{Name: "Key", Value: "first"},
		{Name: "key", Value: "second"},
	}}
	v, ok := m.Get("KEY")
	require.True(t, ok)
	require.Equal(t, "second", v)
}
