package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Tests use the minimum bcrypt cost — the logic is identical, only slower
// at production cost.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("right password")
	if err := ps.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() should fail for the wrong password")
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	if err := ps.Verify("not a bcrypt hash", "anything"); err == nil {
		t.Error("Verify() should fail for a malformed hash")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ps.Hash(string(long)); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestHash_Salted(t *testing.T) {
	ps := newTestPasswordService()

	// Same password twice must give different hashes (random salt).
	h1, _ := ps.Hash("same password")
	h2, _ := ps.Hash("same password")
	if h1 == h2 {
		t.Error("Hash() produced identical hashes — salt missing?")
	}
}
