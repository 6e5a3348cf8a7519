package security

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestHashAndCheckPassword(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	salt := Salt(createdAt)

	digest, err := HashPassword(testSecret, "p1", salt)

	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if digest == "p1" {
		t.Fatalf("digest must not equal the plaintext")
	}

	if !CheckPassword(testSecret, "p1", salt, digest) {
		t.Fatalf("expected correct password to verify")
	}

	if CheckPassword(testSecret, "p2", salt, digest) {
		t.Fatalf("expected wrong password to fail")
	}

	if CheckPassword("other-secret", "p1", salt, digest) {
		t.Fatalf("expected wrong secret to fail")
	}
}

// Regression: the salt is derived from created_at, so moving the timestamp
// after a digest was computed must invalidate verification.
func TestSaltBoundToCreationTime(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	digest, err := HashPassword(testSecret, "p1", Salt(createdAt))

	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	rotated := createdAt.Add(1 * time.Second)

	if CheckPassword(testSecret, "p1", Salt(rotated), digest) {
		t.Fatalf("expected verification to fail after created_at changed")
	}
}

func TestSaltIsStableAcrossZones(t *testing.T) {
	utc := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	if Salt(utc) != Salt(est) {
		t.Fatalf("same instant in different zones produced different salts: %q vs %q", Salt(utc), Salt(est))
	}
}

func TestHashPasswordLongInputs(t *testing.T) {
	// bcrypt caps input at 72 bytes; the pre-digest keeps arbitrarily long
	// secret+password+salt combinations hashable.
	long := make([]byte, 200)

	for i := range long {
		long[i] = 'a'
	}

	salt := Salt(time.Now())

	digest, err := HashPassword(testSecret, string(long), salt)

	if err != nil {
		t.Fatalf("HashPassword error on long input: %v", err)
	}

	if !CheckPassword(testSecret, string(long), salt, digest) {
		t.Fatalf("expected long password to verify")
	}
}
