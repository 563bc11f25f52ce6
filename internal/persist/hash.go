package persist

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Password hashes are stored as full argon2id verifiers in PHC string
// format. Rows written by the legacy server hold a bare hex sha256 of
// salt+username+password; VerifyPassword still accepts those so logins keep
// working, and the caller rehashes on success.

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// HashPassword produces an argon2id verifier for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against a stored verifier. The second
// return value reports whether the verifier is a legacy sha256 row that
// should be silently rehashed after a successful login.
func VerifyPassword(stored, username, password, legacySalt string) (ok bool, legacy bool) {
	if strings.HasPrefix(stored, "$argon2id$") {
		return verifyArgon(stored, password), false
	}
	return verifyLegacySHA256(stored, username, password, legacySalt), true
}

func verifyArgon(stored, password string) bool {
	parts := strings.Split(stored, "$")
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, hash
	if len(parts) != 6 {
		return false
	}
	var mem uint32
	var tm uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &tm, &par); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, tm, mem, par, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// LegacyHash computes the deprecated sha256 verifier. Exported for the
// account tools that import old databases.
func LegacyHash(username, password, salt string) string {
	sum := sha256.Sum256([]byte(salt + username + password))
	return hex.EncodeToString(sum[:])
}

func verifyLegacySHA256(stored, username, password, salt string) bool {
	want := LegacyHash(username, password, salt)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(want)) == 1
}

// DecoyVerify burns the same CPU as a real argon2id verification. Called
// when the username does not exist so response timing does not reveal
// account existence.
var decoySalt = []byte("eogo-decoy-salt!")

func DecoyVerify(password string) {
	argon2.IDKey([]byte(password), decoySalt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
