// Package s3api implements the operation dispatcher (spec.md §4.5/C9)
// and the per-operation request/response codec (C10): an ordered list
// of {predicate, handler} routes tried in registration order, each
// handler extracting a typed request from the verified reqctx.Context
// and rendering a Response against the storage port.
package s3api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ethanadams/s3core/internal/auth"
	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/metrics"
	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/s3path"
	"github.com/ethanadams/s3core/internal/store"
)

// handlerFunc extracts a typed request from rc, calls st, and renders a
// Response — the codec's Extract+Render pair, fused into one function
// per operation since both halves share the same request shape.
type handlerFunc func(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error)

// route pairs a predicate with the handler it guards. Routes are tried
// in registration order; the first match wins (spec.md §4.5).
type route struct {
	name   string
	match  func(rc *reqctx.Context) bool
	handle handlerFunc
}

// Dispatcher is the root http.Handler: it authenticates every request
// then dispatches to the first matching route.
type Dispatcher struct {
	routes  []route
	store   store.Store
	auth    *auth.Pipeline
	metrics *metrics.Collector
}

// New builds a Dispatcher wired to st (the storage port), authPipeline
// (SigV4 verification), and coll (request metrics, may be nil to
// disable metrics emission, e.g. in unit tests).
func New(st store.Store, authPipeline *auth.Pipeline, coll *metrics.Collector) *Dispatcher {
	d := &Dispatcher{store: st, auth: authPipeline, metrics: coll}
	d.routes = d.buildRoutes()
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rc, parseErr := newRequestContext(r)
	requestID := ulid.Make().String()

	if parseErr != nil {
		d.renderError(w, "Unknown", requestID, parseErr, start)
		return
	}
	rc.RequestID = requestID

	if authErr := d.auth.Authenticate(r.Context(), rc); authErr != nil {
		if d.metrics != nil {
			d.metrics.RecordAuthFailure(string(authErr.Code))
		}
		d.renderError(w, "Unknown", requestID, authErr, start)
		return
	}

	for _, rt := range d.routes {
		if !rt.match(rc) {
			continue
		}
		resp, handleErr := rt.handle(r.Context(), rc, d.store)
		if handleErr != nil {
			d.renderError(w, rt.name, requestID, handleErr, start)
			return
		}
		resp.SetHeader("x-amz-request-id", requestID)
		if err := resp.WriteTo(w); err != nil {
			return
		}
		if d.metrics != nil {
			d.metrics.RecordRequest(rt.name, resp.Status, time.Since(start).Seconds())
		}
		return
	}

	notImplemented := s3err.New(s3err.NotImplemented)
	d.renderError(w, "Unmatched", requestID, notImplemented, start)
}

func (d *Dispatcher) renderError(w http.ResponseWriter, operation, requestID string, se *s3err.Error, start time.Time) {
	se.RequestID = requestID
	body, err := se.MarshalXML()
	status := s3err.HTTPStatus(se.Code)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>InternalError</Code></Error>`)
	}
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	w.Header().Set("x-amz-request-id", requestID)
	w.WriteHeader(status)
	_, _ = w.Write(body)

	if d.metrics != nil {
		d.metrics.RecordRequest(operation, status, time.Since(start).Seconds())
	}
}

// newRequestContext builds a reqctx.Context from an *http.Request. Path
// parse failures map to InvalidURI/InvalidBucketName/KeyTooLongError
// per spec.md §7, surfaced before auth runs since a malformed path can't
// be routed to any handler regardless of signature validity.
func newRequestContext(r *http.Request) (*reqctx.Context, *s3err.Error) {
	p, err := s3path.Parse(r.URL.Path)
	if err != nil {
		return nil, pathParseError(err)
	}

	query, queryErr := url.ParseQuery(r.URL.RawQuery)
	if queryErr != nil {
		return nil, s3err.New(s3err.InvalidURI)
	}

	return &reqctx.Context{
		Method:      r.Method,
		Path:        r.URL.Path,
		S3Path:      p,
		Headers:     httpkit.NewOrderedHeaders(r.Header),
		Query:       httpkit.NewOrderedQs(query),
		ContentType: r.Header.Get("Content-Type"),
		Body:        r.Body,
	}, nil
}

func pathParseError(err error) *s3err.Error {
	pe, ok := err.(*s3path.ParseError)
	if !ok {
		return s3err.New(s3err.InvalidURI)
	}
	switch pe.Kind {
	case s3path.ErrInvalidBucketName:
		return s3err.New(s3err.InvalidBucketName)
	case s3path.ErrKeyTooLong:
		return s3err.New(s3err.KeyTooLongError)
	default:
		return s3err.New(s3err.InvalidURI)
	}
}
