// Package auth holds the credential primitives used by the admin login flow.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength caps what we feed to the KDF.
const maxPasswordLength = 1024

var b64 = base64.RawStdEncoding

// kdfParams are the argon2id cost settings recorded in every encoded hash,
// so hashes survive a change of defaults.
type kdfParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var defaultKDF = kdfParams{memory: 64 * 1024, time: 3, threads: 4, keyLen: 32}

const saltLen = 16

func (p kdfParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// encode renders the PHC string: $argon2id$v=19$m=..,t=..,p=..$salt$key
func (p kdfParams) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads, b64.EncodeToString(salt), b64.EncodeToString(key))
}

// parsePHC is the inverse of encode.
func parsePHC(encoded string) (p kdfParams, salt, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, "$argon2id$")
	if !ok {
		return p, nil, nil, errors.New("not an argon2id hash")
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, nil, nil, errors.New("malformed argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %q", fields[0])
	}
	if _, err = fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("argon2 params: %w", err)
	}
	if salt, err = b64.DecodeString(fields[2]); err != nil {
		return p, nil, nil, fmt.Errorf("argon2 salt: %w", err)
	}
	if key, err = b64.DecodeString(fields[3]); err != nil {
		return p, nil, nil, fmt.Errorf("argon2 key: %w", err)
	}
	//nolint:gosec // key length is bounded by what we encoded
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// HashPassword returns an encoded argon2id hash with a fresh random salt.
func HashPassword(password string) (string, error) {
	switch {
	case password == "":
		return "", errors.New("password cannot be empty")
	case len(password) > maxPasswordLength:
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return defaultKDF.encode(salt, defaultKDF.derive(password, salt)), nil
}

// VerifyPassword checks password against a stored hash. Both argon2id and
// bcrypt hashes are accepted. A malformed hash is a mismatch, not an error.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}
	if IsLegacyHash(encodedHash) {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil, nil
	}

	p, salt, want, err := parsePHC(encodedHash)
	if err != nil {
		return false, nil //nolint:nilerr // do not reveal why the stored hash is unusable
	}
	return subtle.ConstantTimeCompare(want, p.derive(password, salt)) == 1, nil
}

// IsLegacyHash reports whether the stored hash is bcrypt and should be
// replaced with an argon2id hash after the next successful login.
func IsLegacyHash(encodedHash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encodedHash, prefix) {
			return true
		}
	}
	return false
}

// HashToken returns the hex SHA-256 of a bearer token. Only this digest is persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
