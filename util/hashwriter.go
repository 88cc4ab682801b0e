package util

import (
	"bytes"
	"crypto/sha256"
	"hash"
	"io"
)

// A HashWriter wraps an io.Writer and computes the SHA-256 digest of
// everything written through it. The container format identifies image
// payloads by their SHA-256, so this is the only digest we keep.
type HashWriter struct {
	io.Writer
	sha hash.Hash
}

// NewHashWriter returns a HashWriter wrapping w.
func NewHashWriter(w io.Writer) *HashWriter {
	hw := &HashWriter{sha: sha256.New()}
	hw.Writer = io.MultiWriter(w, hw.sha)
	return hw
}

// NewHashWriterPlain returns a HashWriter that only digests; nothing is
// forwarded anywhere.
func NewHashWriterPlain() *HashWriter {
	hw := &HashWriter{sha: sha256.New()}
	hw.Writer = hw.sha
	return hw
}

// Sum returns the SHA-256 digest of the bytes written so far.
func (hw *HashWriter) Sum() []byte {
	return hw.sha.Sum(nil)
}

// Check compares the digest of the bytes written so far against goal.
// An empty goal matches anything.
func (hw *HashWriter) Check(goal []byte) bool {
	return len(goal) == 0 || bytes.Equal(goal, hw.Sum())
}

// DigestSHA256 consumes r and returns its SHA-256 digest.
func DigestSHA256(r io.Reader) ([]byte, error) {
	hw := NewHashWriterPlain()
	if _, err := io.Copy(hw, r); err != nil {
		return nil, err
	}
	return hw.Sum(), nil
}
