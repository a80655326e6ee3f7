// Package token generates the entry and exit secrets attached to an
// exam session. Tokens are purpose-prefixed so an entry token can never
// be mistaken for an exit token in logs or payloads.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

const (
	EntryPrefix = "ent"
	ExitPrefix  = "ext"

	randomBytes = 16
)

// New returns a token of the form "<prefix>_<32 hex chars>" backed by
// 16 bytes from crypto/rand.
func New(prefix string) string {
	return prefix + "_" + hex.EncodeToString(mustRandom(randomBytes))
}

// NewEntry generates an entry token.
func NewEntry() string { return New(EntryPrefix) }

// NewExit generates an exit token.
func NewExit() string { return New(ExitPrefix) }

// mustRandom returns n random bytes or panics. A broken system RNG is
// not something token issuance can recover from.
func mustRandom(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return b
}
