package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters for newly generated hashes. Verification reads the
// parameters back out of the encoded hash, so these can change without
// invalidating stored credentials.
const (
	argonTime    = uint32(3)
	argonMemory  = uint32(64 * 1024)
	argonThreads = uint8(2)
	argonKeyLen  = uint32(32)
	argonSaltLen = 16
)

// GenerateHash derives an argon2id hash of payload with a fresh random
// salt, encoded in the standard $argon2id$v=19$m=..,t=..,p=..$salt$hash
// form.
func GenerateHash(payload string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(payload), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyHash checks plain against an encoded argon2id hash using the
// parameters embedded in it. The comparison is constant time.
func VerifyHash(hashed, plain string) (bool, error) {
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	memory, iterations, threads, err := parseArgonParams(parts[3])
	if err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(plain), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// parseArgonParams decodes the "m=65536,t=3,p=2" segment.
func parseArgonParams(segment string) (memory, iterations uint32, threads uint8, err error) {
	n, err := fmt.Sscanf(segment, "m=%d,t=%d,p=%d", &memory, &iterations, &threads)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid param format: %w", err)
	}
	if n != 3 {
		return 0, 0, 0, fmt.Errorf("invalid param format")
	}
	return memory, iterations, threads, nil
}
