package store

import (
	"crypto/rand"
	"fmt"
)

// id alphabet: lowercase + digits, minus easily-confused characters.
const idAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// NewTempID returns a client-local placeholder id for optimistically created
// entities. The server-assigned id replaces it once the write succeeds; temp
// ids never leave the process.
func NewTempID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to a
		// constant so callers still get a recognizable placeholder.
		return "tmp-local"
	}
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return fmt.Sprintf("tmp-%s", string(b))
}

// IsTempID reports whether an id was minted locally by NewTempID.
func IsTempID(id string) bool {
	return len(id) > 4 && id[:4] == "tmp-"
}
