package notes

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// modificationCodeBytes yields 8 hex characters per code.
const modificationCodeBytes = 4

// NewModificationCode generates the secret a client must present to
// update or delete a note. Independent of the note id.
func NewModificationCode() (string, error) {
	buf := make([]byte, modificationCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate modification code: %v", err)
	}

	return hex.EncodeToString(buf), nil
}

// Authorize compares the presented code against the stored one in
// constant time, so response timing never narrows down the secret.
func Authorize(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
