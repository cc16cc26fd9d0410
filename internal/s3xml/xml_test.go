package s3xml

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/httpkit"
)

type sampleDoc struct {
	XMLName xml.Name `xml:"Sample"`
	Value   string   `xml:"Value"`
}

func TestMarshalPrependsPrologue(t *testing.T) {
	body, err := Marshal(sampleDoc{Value: "hi"})
	require.NoError(t, err)
	require.Contains(t, string(body), `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, string(body), "<Value>hi</Value>")
}

func TestWriteXMLSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteXML(rec, http.StatusCreated, sampleDoc{Value: "ok"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "text/xml; charset=UTF-8", rec.Header().Get("Content-Type"))
}

func TestLastModifiedRFC1123(t *testing.T) {
	ts := time.Date(2013, time.May, 24, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Fri, 24 May 2013 00:00:00 GMT", LastModifiedRFC1123(ts))
}

func TestSetMetadataHeadersAndHeadersOnAgree(t *testing.T) {
	meta := map[string]string{"owner": "alice"}

	rec := httptest.NewRecorder()
	SetMetadataHeaders(rec, meta)
	require.Equal(t, "alice", rec.Header().Get("x-amz-meta-owner"))

	h := http.Header{}
	SetMetadataHeadersOn(h, meta)
	require.Equal(t, "alice", h.Get("x-amz-meta-owner"))
}

func TestExtractMetadataHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Amz-Meta-Owner", "alice")
	h.Set("Content-Type", "text/plain")

	got := ExtractMetadataHeaders(h)
	require.Equal(t, map[string]string{"owner": "alice"}, got)
}

func TestExtractMetadataHeadersOrdered(t *testing.T) {
	h := http.Header{}
	h.Set("X-Amz-Meta-Owner", "alice")
	h.Set("X-Amz-Meta-Team", "s3")
	h.Set("Host", "example.com")

	got := ExtractMetadataHeadersOrdered(httpkit.NewOrderedHeaders(h))
	require.Equal(t, map[string]string{"owner": "alice", "team": "s3"}, got)
}

func TestQuotedETag(t *testing.T) {
	require.Equal(t, `"abc123"`, QuotedETag("abc123"))
}
