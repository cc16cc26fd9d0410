package sigv4

// PayloadToken computes the hashed-payload token for the canonical
// request given the request's x-amz-content-sha256 kind (spec.md §4.1
// rule 6). For SingleChunk the already-read body bytes are hashed here;
// for the streaming and presigned cases the literal tokens are used
// directly without touching the body.
func PayloadTokenSingleChunk(body []byte) string {
	return SHA256Hex(body)
}

func PayloadTokenEmpty() string {
	return EmptyStringSHA256
}

func PayloadTokenMultipleChunks() string {
	return StreamingPayloadToken
}

func PayloadTokenUnsigned() string {
	return UnsignedPayloadToken
}
