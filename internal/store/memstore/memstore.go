// Package memstore is the in-memory reference implementation of
// internal/store.Store: a single mutex-guarded map of buckets, each
// holding its objects and in-progress multipart uploads. It exists to
// make the dispatcher and its tests runnable without an external
// dependency, the same role restic's backend.MemoryBackend plays for
// that project's repository tests.
package memstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethanadams/s3core/internal/store"
)

type object struct {
	key          string
	body         []byte
	etag         string
	contentType  string
	metadata     map[string]string
	lastModified time.Time
}

func (o *object) info() store.ObjectInfo {
	return store.ObjectInfo{
		Key:          o.key,
		Size:         int64(len(o.body)),
		ETag:         o.etag,
		LastModified: o.lastModified,
		ContentType:  o.contentType,
		Metadata:     o.metadata,
	}
}

type part struct {
	number       int
	body         []byte
	etag         string
	lastModified time.Time
}

type upload struct {
	id          string
	key         string
	contentType string
	metadata    map[string]string
	createdAt   time.Time
	parts       map[int]*part
}

type bucket struct {
	name         string
	creationDate time.Time
	objects      map[string]*object
	uploads      map[string]*upload
}

// Store is the in-memory backend. The zero value is not usable; call New.
type Store struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	uploadSeq int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func (s *Store) bucketLocked(name string) (*bucket, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, store.ErrNoSuchBucket
	}
	return b, nil
}

func (s *Store) ListBuckets(ctx context.Context) ([]store.BucketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.BucketInfo, 0, len(s.buckets))
	for _, b := range s.buckets {
		out = append(out, store.BucketInfo{Name: b.name, CreationDate: b.creationDate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) HeadBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.bucketLocked(name)
	return err
}

func (s *Store) CreateBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[name]; ok {
		return store.ErrBucketAlreadyExists
	}
	s.buckets[name] = &bucket{
		name:         name,
		creationDate: time.Now().UTC(),
		objects:      make(map[string]*object),
		uploads:      make(map[string]*upload),
	}
	return nil
}

func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(name)
	if err != nil {
		return err
	}
	if len(b.objects) > 0 || len(b.uploads) > 0 {
		return store.ErrBucketNotEmpty
	}
	delete(s.buckets, name)
	return nil
}

func (s *Store) ListObjects(ctx context.Context, bucketName string, in store.ListObjectsInput) (store.ListObjectsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return store.ListObjectsResult{}, err
	}

	keys := matchingKeys(b, in.Prefix)
	maxKeys := in.MaxKeys
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	var result store.ListObjectsResult
	commonPrefixes := map[string]bool{}
	count := 0
	for _, k := range keys {
		if k <= in.Marker {
			continue
		}
		if in.Delimiter != "" {
			if cp, ok := commonPrefix(k, in.Prefix, in.Delimiter); ok {
				if !commonPrefixes[cp] {
					if count == maxKeys {
						result.IsTruncated = true
						result.NextMarker = k
						break
					}
					commonPrefixes[cp] = true
					result.CommonPrefixes = append(result.CommonPrefixes, cp)
					count++
				}
				continue
			}
		}
		if count == maxKeys {
			result.IsTruncated = true
			result.NextMarker = k
			break
		}
		result.Contents = append(result.Contents, store.ListEntry{ObjectInfo: b.objects[k].info()})
		count++
	}
	sort.Strings(result.CommonPrefixes)
	return result, nil
}

func (s *Store) ListObjectsV2(ctx context.Context, bucketName string, in store.ListObjectsV2Input) (store.ListObjectsV2Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return store.ListObjectsV2Result{}, err
	}

	keys := matchingKeys(b, in.Prefix)
	maxKeys := in.MaxKeys
	if maxKeys <= 0 {
		maxKeys = 1000
	}
	after := in.StartAfter
	if in.ContinuationToken != "" {
		after = in.ContinuationToken
	}

	var result store.ListObjectsV2Result
	commonPrefixes := map[string]bool{}
	for _, k := range keys {
		if k <= after {
			continue
		}
		if in.Delimiter != "" {
			if cp, ok := commonPrefix(k, in.Prefix, in.Delimiter); ok {
				if !commonPrefixes[cp] {
					if result.KeyCount == maxKeys {
						result.IsTruncated = true
						result.NextContinuationToken = k
						break
					}
					commonPrefixes[cp] = true
					result.CommonPrefixes = append(result.CommonPrefixes, cp)
					result.KeyCount++
				}
				continue
			}
		}
		if result.KeyCount == maxKeys {
			result.IsTruncated = true
			result.NextContinuationToken = k
			break
		}
		result.Contents = append(result.Contents, store.ListEntry{ObjectInfo: b.objects[k].info()})
		result.KeyCount++
	}
	sort.Strings(result.CommonPrefixes)
	return result, nil
}

func matchingKeys(b *bucket, prefix string) []string {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// commonPrefix reports the delimiter-bounded prefix for key beyond
// prefix, per AWS's ListObjects grouping rule.
func commonPrefix(key, prefix, delimiter string) (string, bool) {
	rest := strings.TrimPrefix(key, prefix)
	idx := strings.Index(rest, delimiter)
	if idx < 0 {
		return "", false
	}
	return prefix + rest[:idx+len(delimiter)], true
}

func (s *Store) HeadObject(ctx context.Context, bucketName, key string) (store.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return store.ObjectInfo{}, err
	}
	o, ok := b.objects[key]
	if !ok {
		return store.ObjectInfo{}, store.ErrNoSuchKey
	}
	return o.info(), nil
}

func (s *Store) GetObject(ctx context.Context, bucketName, key string, rng *store.RangeSpec) (store.GetObjectResult, error) {
	s.mu.Lock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		s.mu.Unlock()
		return store.GetObjectResult{}, err
	}
	o, ok := b.objects[key]
	if !ok {
		s.mu.Unlock()
		return store.GetObjectResult{}, store.ErrNoSuchKey
	}
	body := o.body
	info := o.info()
	s.mu.Unlock()

	total := int64(len(body))
	if rng == nil {
		return store.GetObjectResult{ObjectInfo: info, Body: io.NopCloser(bytes.NewReader(body)), TotalSize: total}, nil
	}

	first := rng.First
	last := total - 1
	if rng.HasLast {
		last = rng.Last
	}
	if first < 0 || first > last || first >= total {
		return store.GetObjectResult{}, store.ErrInvalidRange
	}
	if last >= total {
		last = total - 1
	}
	slice := body[first : last+1]
	contentRange := fmt.Sprintf("bytes %d-%d/%d", first, last, total)
	return store.GetObjectResult{
		ObjectInfo: info,
		Body:       io.NopCloser(bytes.NewReader(slice)),
		Range:      contentRange,
		TotalSize:  total,
	}, nil
}

func (s *Store) PutObject(ctx context.Context, bucketName, key string, in store.PutObjectInput) (store.PutObjectResult, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return store.PutObjectResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return store.PutObjectResult{}, err
	}

	now := time.Now().UTC()
	o := &object{
		key:          key,
		body:         body,
		etag:         md5Hex(body),
		contentType:  in.ContentType,
		metadata:     in.Metadata,
		lastModified: now,
	}
	b.objects[key] = o
	return store.PutObjectResult{ETag: o.etag, LastModified: now}, nil
}

func (s *Store) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string, in store.PutObjectInput) (store.CopyObjectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb, err := s.bucketLocked(srcBucket)
	if err != nil {
		return store.CopyObjectResult{}, err
	}
	src, ok := sb.objects[srcKey]
	if !ok {
		return store.CopyObjectResult{}, store.ErrNoSuchKey
	}
	db, err := s.bucketLocked(dstBucket)
	if err != nil {
		return store.CopyObjectResult{}, err
	}

	body := make([]byte, len(src.body))
	copy(body, src.body)

	contentType := in.ContentType
	if contentType == "" {
		contentType = src.contentType
	}
	metadata := in.Metadata
	if metadata == nil {
		metadata = src.metadata
	}

	now := time.Now().UTC()
	dst := &object{
		key:          dstKey,
		body:         body,
		etag:         md5Hex(body),
		contentType:  contentType,
		metadata:     metadata,
		lastModified: now,
	}
	db.objects[dstKey] = dst
	return store.CopyObjectResult{ETag: dst.etag, LastModified: now}, nil
}

func (s *Store) DeleteObject(ctx context.Context, bucketName, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return err
	}
	delete(b.objects, key)
	return nil
}

func (s *Store) DeleteObjects(ctx context.Context, bucketName string, keys []string) ([]string, map[string]error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bucketLocked(bucketName)
	if err != nil {
		failed := make(map[string]error, len(keys))
		for _, k := range keys {
			failed[k] = err
		}
		return nil, failed
	}

	deleted := make([]string, 0, len(keys))
	for _, k := range keys {
		delete(b.objects, k)
		deleted = append(deleted, k)
	}
	return deleted, nil
}

func (s *Store) CreateMultipartUpload(ctx context.Context, bucketName, key string, in store.PutObjectInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return "", err
	}

	s.uploadSeq++
	id := fmt.Sprintf("%s-upload-%d-%d", key, time.Now().UnixNano(), s.uploadSeq)
	b.uploads[id] = &upload{
		id:          id,
		key:         key,
		contentType: in.ContentType,
		metadata:    in.Metadata,
		createdAt:   time.Now().UTC(),
		parts:       make(map[int]*part),
	}
	return id, nil
}

func (s *Store) UploadPart(ctx context.Context, bucketName, key, uploadID string, partNumber int, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return "", err
	}
	u, ok := b.uploads[uploadID]
	if !ok || u.key != key {
		return "", store.ErrNoSuchUpload
	}

	etag := md5Hex(data)
	u.parts[partNumber] = &part{
		number:       partNumber,
		body:         data,
		etag:         etag,
		lastModified: time.Now().UTC(),
	}
	return etag, nil
}

func (s *Store) CompleteMultipartUpload(ctx context.Context, bucketName, key, uploadID string, parts []store.CompletedPart) (store.CompleteMultipartUploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return store.CompleteMultipartUploadResult{}, err
	}
	u, ok := b.uploads[uploadID]
	if !ok || u.key != key {
		return store.CompleteMultipartUploadResult{}, store.ErrNoSuchUpload
	}

	last := 0
	var body []byte
	var partETags []string
	for _, p := range parts {
		if p.PartNumber <= last {
			return store.CompleteMultipartUploadResult{}, store.ErrInvalidPartOrder
		}
		last = p.PartNumber
		stored, ok := u.parts[p.PartNumber]
		if !ok || stored.etag != p.ETag {
			return store.CompleteMultipartUploadResult{}, store.ErrInvalidPart
		}
		body = append(body, stored.body...)
		partETags = append(partETags, stored.etag)
	}

	// AWS's composite ETag: MD5 of the concatenated binary part MD5s,
	// suffixed with "-<part count>". Computed here because this backend
	// owns upload-state bookkeeping; the core never computes it.
	var rawDigests []byte
	for _, hexDigest := range partETags {
		raw, decodeErr := hex.DecodeString(hexDigest)
		if decodeErr != nil {
			return store.CompleteMultipartUploadResult{}, decodeErr
		}
		rawDigests = append(rawDigests, raw...)
	}
	compositeETag := fmt.Sprintf("%s-%d", md5Hex(rawDigests), len(parts))

	now := time.Now().UTC()
	b.objects[key] = &object{
		key:          key,
		body:         body,
		etag:         compositeETag,
		contentType:  u.contentType,
		metadata:     u.metadata,
		lastModified: now,
	}
	delete(b.uploads, uploadID)

	return store.CompleteMultipartUploadResult{
		ETag:         compositeETag,
		Location:     fmt.Sprintf("/%s/%s", bucketName, key),
		LastModified: now,
	}, nil
}

func (s *Store) AbortMultipartUpload(ctx context.Context, bucketName, key, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return err
	}
	u, ok := b.uploads[uploadID]
	if !ok || u.key != key {
		return store.ErrNoSuchUpload
	}
	delete(b.uploads, uploadID)
	return nil
}

func (s *Store) ListParts(ctx context.Context, bucketName, key, uploadID string) ([]store.PartInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(bucketName)
	if err != nil {
		return nil, err
	}
	u, ok := b.uploads[uploadID]
	if !ok || u.key != key {
		return nil, store.ErrNoSuchUpload
	}

	out := make([]store.PartInfo, 0, len(u.parts))
	for _, p := range u.parts {
		out = append(out, store.PartInfo{
			PartNumber:   p.number,
			ETag:         p.etag,
			Size:         int64(len(p.body)),
			LastModified: p.lastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartNumber < out[j].PartNumber })
	return out, nil
}

// SweepStaleUploads removes every multipart upload created before
// olderThan, across every bucket. Driven by internal/sweeper.
func (s *Store) SweepStaleUploads(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, b := range s.buckets {
		for id, u := range b.uploads {
			if u.createdAt.Before(olderThan) {
				delete(b.uploads, id)
				removed++
			}
		}
	}
	return removed, nil
}
