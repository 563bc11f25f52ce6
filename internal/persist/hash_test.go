package persist

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	stored, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(stored, "$argon2id$") {
		t.Fatalf("verifier format: %q", stored)
	}

	ok, legacy := VerifyPassword(stored, "someone", "hunter2", "salt")
	if !ok || legacy {
		t.Fatalf("correct password: ok=%v legacy=%v", ok, legacy)
	}
	ok, _ = VerifyPassword(stored, "someone", "hunter3", "salt")
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyLegacyRow(t *testing.T) {
	stored := LegacyHash("digitx", "swordfish", "pepper")

	ok, legacy := VerifyPassword(stored, "digitx", "swordfish", "pepper")
	if !ok {
		t.Fatal("legacy verifier rejected")
	}
	if !legacy {
		t.Fatal("legacy row not flagged for rehash")
	}

	if ok, _ := VerifyPassword(stored, "digitx", "wrong", "pepper"); ok {
		t.Fatal("legacy row accepted wrong password")
	}
	if ok, _ := VerifyPassword(stored, "other", "swordfish", "pepper"); ok {
		t.Fatal("legacy row accepted wrong username")
	}
}

func TestVerifyMalformedVerifier(t *testing.T) {
	for _, stored := range []string{
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=1,p=4$!!notbase64!!$AAAA",
		"$argon2id$v=19$bogus$AAAA$AAAA",
	} {
		if ok, _ := VerifyPassword(stored, "u", "p", "s"); ok {
			t.Errorf("malformed verifier %q accepted", stored)
		}
	}
}

func TestDecoyVerifyDoesNotPanic(t *testing.T) {
	DecoyVerify("")
	DecoyVerify("anything")
}
