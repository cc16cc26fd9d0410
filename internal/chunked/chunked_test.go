package chunked_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/chunked"
	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/sigv4"
)

// flakyReader wraps r and returns (0, injectedErr) exactly once, right as
// the read position reaches failAt, without consuming any bytes from r
// itself. It models a transient transport failure landing precisely at a
// chunk boundary.
type flakyReader struct {
	r           io.Reader
	pos         int64
	failAt      int64
	failed      bool
	injectedErr error
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if !f.failed && f.pos >= f.failAt {
		f.failed = true
		return 0, f.injectedErr
	}
	if !f.failed {
		if max := f.failAt - f.pos; int64(len(p)) > max {
			p = p[:max]
		}
	}
	n, err := f.r.Read(p)
	f.pos += int64(n)
	return n, err
}

// buildChunk writes one wire-format chunk: "<hex-size>;chunk-signature=<sig>\r\n<payload>\r\n".
func buildChunk(buf *bytes.Buffer, payload []byte, signature string) {
	fmt.Fprintf(buf, "%x;chunk-signature=%s\r\n", len(payload), signature)
	buf.Write(payload)
	buf.WriteString("\r\n")
}

// TestChunkedRoundtrip reproduces spec.md §8 scenario 3: the AWS
// documentation's streaming PutObject example (64 KiB of 'a', then
// 1024 bytes of 'a', then the terminating chunk).
func TestChunkedRoundtrip(t *testing.T) {
	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	const region = "us-east-1"
	const seedSignature = "4f232c4386841ef735655705268965c44a0e4690baa4adea153f7db9fa80a0a9"
	const sig1 = "ad80c730a21e5b8d04586a2213dd63b9a0e99e0e2307b0ade35a65485a288648"
	const sig2 = "0055627c9e194cb4542bae2aa5492e3c1575bbb81b612b7d234b86a503ef5497"
	const sigTerm = "b6c6ea8a5354eaf15b3cb7646744f4275b71ea724fed81ceb9323e279d449df9"

	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)
	scope := sigv4.Scope(date.DateStamp(), region)
	signingKey := sigv4.DeriveSigningKey(secret, date.DateStamp(), region, sigv4.ServiceName)

	chunk1 := bytes.Repeat([]byte("a"), 64*1024)
	chunk2 := bytes.Repeat([]byte("a"), 1024)

	var wire bytes.Buffer
	buildChunk(&wire, chunk1, sig1)
	buildChunk(&wire, chunk2, sig2)
	buildChunk(&wire, nil, sigTerm)

	dec := chunked.NewDecoder(&wire, signingKey, date, scope, seedSignature)
	out, err := io.ReadAll(dec)
	require.NoError(t, err)
	require.Equal(t, len(chunk1)+len(chunk2), len(out))
	require.True(t, bytes.Equal(out[:len(chunk1)], chunk1))
	require.True(t, bytes.Equal(out[len(chunk1):], chunk2))
}

// TestChunkedSignatureMismatch flips a byte in a chunk's payload and
// expects exactly one SignatureMismatch error, per spec.md §8's
// invariant for tampered streams.
func TestChunkedSignatureMismatch(t *testing.T) {
	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	const region = "us-east-1"
	const seedSignature = "4f232c4386841ef735655705268965c44a0e4690baa4adea153f7db9fa80a0a9"
	const sig1 = "ad80c730a21e5b8d04586a2213dd63b9a0e99e0e2307b0ade35a65485a288648"

	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)
	scope := sigv4.Scope(date.DateStamp(), region)
	signingKey := sigv4.DeriveSigningKey(secret, date.DateStamp(), region, sigv4.ServiceName)

	chunk1 := bytes.Repeat([]byte("a"), 64*1024)
	chunk1[0] = 'b' // tamper with the first payload byte

	var wire bytes.Buffer
	buildChunk(&wire, chunk1, sig1)

	dec := chunked.NewDecoder(&wire, signingKey, date, scope, seedSignature)
	_, err = io.ReadAll(dec)
	require.Error(t, err)
	var decodeErr *chunked.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, chunked.ErrSignatureMismatch, decodeErr.Kind)
}

// TestChunkedIOErrorResumes reproduces the other half of spec.md §8
// scenario 3: an IO error injected between two valid chunks must surface
// as exactly one Io error, and the following Read must resume decoding
// at the same point rather than entering a terminal state.
func TestChunkedIOErrorResumes(t *testing.T) {
	const secret = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
	const region = "us-east-1"
	const seedSignature = "4f232c4386841ef735655705268965c44a0e4690baa4adea153f7db9fa80a0a9"
	const sig1 = "ad80c730a21e5b8d04586a2213dd63b9a0e99e0e2307b0ade35a65485a288648"
	const sig2 = "0055627c9e194cb4542bae2aa5492e3c1575bbb81b612b7d234b86a503ef5497"
	const sigTerm = "b6c6ea8a5354eaf15b3cb7646744f4275b71ea724fed81ceb9323e279d449df9"

	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)
	scope := sigv4.Scope(date.DateStamp(), region)
	signingKey := sigv4.DeriveSigningKey(secret, date.DateStamp(), region, sigv4.ServiceName)

	chunk1 := bytes.Repeat([]byte("a"), 64*1024)
	chunk2 := bytes.Repeat([]byte("a"), 1024)

	var wire bytes.Buffer
	buildChunk(&wire, chunk1, sig1)
	failAt := int64(wire.Len()) // land the injected failure right between chunk1 and chunk2
	buildChunk(&wire, chunk2, sig2)
	buildChunk(&wire, nil, sigTerm)

	flaky := &flakyReader{r: bytes.NewReader(wire.Bytes()), failAt: failAt, injectedErr: errors.New("injected transport failure")}
	dec := chunked.NewDecoder(flaky, signingKey, date, scope, seedSignature)

	var got []byte
	buf := make([]byte, 4096)
	ioErrors := 0
	for {
		n, err := dec.Read(buf)
		got = append(got, buf[:n]...)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		var decodeErr *chunked.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		require.Equal(t, chunked.ErrIO, decodeErr.Kind)
		ioErrors++
		require.LessOrEqual(t, ioErrors, 1, "expected exactly one Io error")
	}
	require.Equal(t, 1, ioErrors)
	require.Equal(t, len(chunk1)+len(chunk2), len(got))
	require.True(t, bytes.Equal(got[:len(chunk1)], chunk1))
	require.True(t, bytes.Equal(got[len(chunk1):], chunk2))
}

// TestChunkedMalformedMeta rejects a chunk header missing the
// chunk-signature extension.
func TestChunkedMalformedMeta(t *testing.T) {
	date, err := httpkit.ParseAmzDate("20130524T000000Z")
	require.NoError(t, err)

	r := strings.NewReader("10\r\nnotenoughinfo\r\n")
	dec := chunked.NewDecoder(r, nil, date, "scope", "seed")
	_, err = io.ReadAll(dec)
	require.Error(t, err)
	var decodeErr *chunked.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, chunked.ErrEncodingError, decodeErr.Kind)
}
