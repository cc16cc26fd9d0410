package credstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticLookup(t *testing.T) {
	s := NewStatic(map[string]string{"AKIDEXAMPLE": "secret"})

	secret, ok := s.Lookup(context.Background(), "AKIDEXAMPLE")
	require.True(t, ok)
	require.Equal(t, "secret", secret)

	_, ok = s.Lookup(context.Background(), "UNKNOWN")
	require.False(t, ok)
}

func TestStaticCopiesInputMap(t *testing.T) {
	src := map[string]string{"AKID": "secret"}
	s := NewStatic(src)
	src["AKID"] = "mutated"

	secret, ok := s.Lookup(context.Background(), "AKID")
	require.True(t, ok)
	require.Equal(t, "secret", secret, "Static must copy its input map, not alias it")
}
