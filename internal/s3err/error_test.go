package s3err_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/s3err"
)

func TestNoSuchKeyXMLExact(t *testing.T) {
	err := s3err.New(s3err.NoSuchKey)
	assert.Equal(t, http.StatusNotFound, s3err.HTTPStatus(err.Code))

	body, marshalErr := err.MarshalXML()
	require.NoError(t, marshalErr)
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`,
		string(body))
}

func TestBucketAlreadyExistsStatus(t *testing.T) {
	err := s3err.New(s3err.BucketAlreadyExists)
	assert.Equal(t, http.StatusConflict, s3err.HTTPStatus(err.Code))
	assert.Equal(t,
		"The requested bucket name is not available. The bucket namespace is shared by all users of the system. Please select a different name and try again.",
		err.DisplayMessage())
}

func TestWrapDoesNotLeakIntoXML(t *testing.T) {
	inner := assert.AnError
	err := s3err.Wrap(inner)
	body, marshalErr := err.MarshalXML()
	require.NoError(t, marshalErr)
	assert.NotContains(t, string(body), inner.Error())
	assert.Equal(t, inner, err.Unwrap())
}
