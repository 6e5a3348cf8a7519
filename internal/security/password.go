package security

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Salt derives the per-user salt from the record's creation timestamp.
// The hash is therefore bound to created_at: rewriting that column after a
// password was set invalidates every existing digest. This coupling is an
// invariant of the scheme, not an accident.
func Salt(createdAt time.Time) string {
	return createdAt.UTC().Format(time.RFC3339Nano)
}

// HashPassword hashes secret+password+salt with bcrypt. The concatenation is
// pre-digested with SHA-256 (hex, 64 bytes) because bcrypt rejects inputs
// over 72 bytes.
func HashPassword(secret, password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(preimage(secret, password, salt), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt digest against the supplied
// plaintext. Comparison is delegated to bcrypt (constant time).
func CheckPassword(secret, password, salt, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), preimage(secret, password, salt)) == nil
}

func preimage(secret, password, salt string) []byte {
	sum := sha256.Sum256([]byte(secret + password + salt))

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])

	return out
}
