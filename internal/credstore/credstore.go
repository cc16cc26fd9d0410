// Package credstore is the credential-lookup port (spec.md §4.7):
// access key ID -> secret access key, plus a static map-backed
// implementation sourced from server configuration.
package credstore

import "context"

// Store looks up the secret access key for an access key ID. Lookup
// failure (unknown key) is reported by the second return value, not an
// error, since "not found" is an expected, non-exceptional outcome the
// auth pipeline maps to NotSignedUp.
type Store interface {
	Lookup(ctx context.Context, accessKeyID string) (secretKey string, ok bool)
}

// Static is the reference Store backed by a fixed access-key->secret-key
// map, the server-side analogue of the teacher's
// S3Config{AccessKey,SecretKey} generalized to many keys.
type Static struct {
	keys map[string]string
}

// NewStatic builds a Static store from a config-loaded key map.
func NewStatic(keys map[string]string) *Static {
	copied := make(map[string]string, len(keys))
	for k, v := range keys {
		copied[k] = v
	}
	return &Static{keys: copied}
}

func (s *Static) Lookup(_ context.Context, accessKeyID string) (string, bool) {
	secret, ok := s.keys[accessKeyID]
	return secret, ok
}
