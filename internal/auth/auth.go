// Package auth implements the SigV4 auth pipeline (spec.md §4.4):
// choosing the header, presigned, or POST-policy verification variant
// for an incoming request, fetching the signer's secret, and verifying.
package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ethanadams/s3core/internal/chunked"
	"github.com/ethanadams/s3core/internal/credstore"
	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/multipart"
	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/sigv4"
)

// Pipeline runs the auth variant selection and verification described
// in spec.md §4.4, against a pluggable credential store.
type Pipeline struct {
	Credentials credstore.Store

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// New builds a Pipeline backed by store.
func New(store credstore.Store) *Pipeline {
	return &Pipeline{Credentials: store, Now: time.Now}
}

// Authenticate verifies rc per spec.md §4.4 and, on success, leaves
// rc.Body positioned so the handler can read the (decoded) payload, and
// rc.Multipart populated for POST-policy uploads.
func (p *Pipeline) Authenticate(ctx context.Context, rc *reqctx.Context) *s3err.Error {
	if rc.Method == http.MethodPost && strings.HasPrefix(rc.ContentType, "multipart/form-data") {
		return p.authenticatePostPolicy(ctx, rc)
	}
	if rc.Query.Has("X-Amz-Signature") {
		return p.authenticatePresigned(ctx, rc)
	}
	return p.authenticateHeader(ctx, rc)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) authenticatePostPolicy(ctx context.Context, rc *reqctx.Context) *s3err.Error {
	_, params, err := mime.ParseMediaType(rc.ContentType)
	if err != nil {
		return s3err.New(s3err.InvalidRequest)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return s3err.New(s3err.InvalidRequest)
	}

	m, err := multipart.Parse(rc.Body, boundary)
	if err != nil {
		return s3err.New(s3err.MalformedPOSTRequest)
	}

	policy, ok := m.Get("policy")
	if !ok {
		return s3err.New(s3err.InvalidRequest)
	}
	if _, decErr := base64.StdEncoding.DecodeString(policy); decErr != nil {
		return s3err.New(s3err.InvalidRequest)
	}
	algorithm, ok := m.Get("x-amz-algorithm")
	if !ok || algorithm != sigv4.Algorithm {
		return s3err.New(s3err.InvalidRequest)
	}
	credentialRaw, ok := m.Get("x-amz-credential")
	if !ok {
		return s3err.New(s3err.InvalidRequest)
	}
	credential, credErr := httpkit.ParseCredential(credentialRaw)
	if credErr != nil {
		return s3err.New(s3err.InvalidRequest)
	}
	dateRaw, ok := m.Get("x-amz-date")
	if !ok {
		return s3err.New(s3err.InvalidRequest)
	}
	if _, dateErr := httpkit.ParseAmzDate(dateRaw); dateErr != nil {
		return s3err.New(s3err.InvalidRequest)
	}
	signature, ok := m.Get("x-amz-signature")
	if !ok {
		return s3err.New(s3err.InvalidRequest)
	}

	secret, found := p.Credentials.Lookup(ctx, credential.AccessKeyID)
	if !found {
		return s3err.New(s3err.NotSignedUp)
	}

	stringToSign := sigv4.PostPolicyStringToSign(policy)
	if !sigv4.Verify(secret, credential.Date, credential.Region, stringToSign, signature) {
		return s3err.New(s3err.SignatureDoesNotMatch)
	}

	rc.AccessKeyID = credential.AccessKeyID
	rc.Multipart = m
	return nil
}

func (p *Pipeline) authenticatePresigned(ctx context.Context, rc *reqctx.Context) *s3err.Error {
	params, err := httpkit.ExtractPresignedParams(rc.Query)
	if err != nil {
		return s3err.New(s3err.AuthorizationQueryParametersError)
	}

	expiry := params.Date.Time().Add(time.Duration(params.Expires) * time.Second)
	if p.now().After(expiry) {
		return s3err.New(s3err.AccessDenied)
	}

	secret, found := p.Credentials.Lookup(ctx, params.Credential.AccessKeyID)
	if !found {
		return s3err.New(s3err.NotSignedUp)
	}

	canonicalRequest, _ := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
		Method:        rc.Method,
		Path:          rc.Path,
		Query:         rc.Query.WithoutSignature(),
		Headers:       rc.Headers,
		SignedHeaders: params.SignedHeaders,
		PayloadToken:  sigv4.UnsignedPayloadToken,
	})
	scope := sigv4.Scope(params.Credential.Date, params.Credential.Region)
	stringToSign := sigv4.StringToSign(params.Date, scope, canonicalRequest)
	if !sigv4.Verify(secret, params.Credential.Date, params.Credential.Region, stringToSign, params.Signature) {
		return s3err.New(s3err.SignatureDoesNotMatch)
	}

	rc.AccessKeyID = params.Credential.AccessKeyID
	return nil
}

func (p *Pipeline) authenticateHeader(ctx context.Context, rc *reqctx.Context) *s3err.Error {
	contentShaRaw, hasContentSha := rc.Headers.Get("x-amz-content-sha256")
	if !hasContentSha {
		// Legacy: accepted per spec.md §4.4's failure-code note.
		return nil
	}
	contentSha, err := httpkit.ParseAmzContentSha256(contentShaRaw)
	if err != nil {
		return s3err.New(s3err.XAmzContentSHA256Mismatch)
	}

	if contentSha.Kind == httpkit.ContentShaUnsignedPayload {
		return nil
	}

	authHeader, hasAuth := rc.Headers.Get("authorization")
	dateRaw, hasDate := rc.Headers.Get("x-amz-date")
	if !hasAuth || !hasDate {
		return s3err.New(s3err.AuthorizationHeaderMalformed)
	}
	authz, authErr := httpkit.ParseAuthorizationV4(authHeader)
	if authErr != nil {
		return s3err.New(s3err.AuthorizationHeaderMalformed)
	}
	date, dateErr := httpkit.ParseAmzDate(dateRaw)
	if dateErr != nil {
		return s3err.New(s3err.AuthorizationHeaderMalformed)
	}

	secret, found := p.Credentials.Lookup(ctx, authz.Credential.AccessKeyID)
	if !found {
		return s3err.New(s3err.NotSignedUp)
	}
	scope := sigv4.Scope(authz.Credential.Date, authz.Credential.Region)

	switch contentSha.Kind {
	case httpkit.ContentShaSingleChunk:
		body, readErr := io.ReadAll(rc.Body)
		if readErr != nil {
			return s3err.New(s3err.InvalidRequest)
		}
		rc.Body = io.NopCloser(bytes.NewReader(body))

		canonicalRequest, _ := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
			Method:        rc.Method,
			Path:          rc.Path,
			Query:         rc.Query,
			Headers:       rc.Headers,
			SignedHeaders: authz.SignedHeaders,
			PayloadToken:  sigv4.PayloadTokenSingleChunk(body),
		})
		stringToSign := sigv4.StringToSign(date, scope, canonicalRequest)
		if !sigv4.Verify(secret, authz.Credential.Date, authz.Credential.Region, stringToSign, authz.Signature) {
			return s3err.New(s3err.SignatureDoesNotMatch)
		}

	case httpkit.ContentShaMultipleChunks:
		canonicalRequest, _ := sigv4.BuildCanonicalRequest(sigv4.HeaderRequest{
			Method:        rc.Method,
			Path:          rc.Path,
			Query:         rc.Query,
			Headers:       rc.Headers,
			SignedHeaders: authz.SignedHeaders,
			PayloadToken:  sigv4.PayloadTokenMultipleChunks(),
		})
		stringToSign := sigv4.StringToSign(date, scope, canonicalRequest)
		if !sigv4.Verify(secret, authz.Credential.Date, authz.Credential.Region, stringToSign, authz.Signature) {
			return s3err.New(s3err.SignatureDoesNotMatch)
		}

		signingKey := sigv4.DeriveSigningKey(secret, authz.Credential.Date, authz.Credential.Region, sigv4.ServiceName)
		rc.Body = io.NopCloser(chunked.NewDecoder(rc.Body, signingKey, date, scope, authz.Signature))

	default:
		return s3err.New(s3err.XAmzContentSHA256Mismatch)
	}

	rc.AccessKeyID = authz.Credential.AccessKeyID
	return nil
}
