package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword(hash, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "admin124")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsLegacyHash(string(legacy)))

	ok, err := VerifyPassword(string(legacy), "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(string(legacy), "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$argon2id$v=19$garbage", "$argon2i$v=19$m=1,t=1,p=1$YQ$YQ"} {
		ok, err := VerifyPassword(h, "admin123")
		assert.NoError(t, err)
		assert.False(t, ok, h)
	}
}

func TestParsePHC_RoundTrip(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := defaultKDF.derive("pw", salt)

	p, gotSalt, gotKey, err := parsePHC(defaultKDF.encode(salt, key))
	require.NoError(t, err)
	assert.Equal(t, defaultKDF, p)
	assert.Equal(t, salt, gotSalt)
	assert.Equal(t, key, gotKey)
}

func TestHashToken(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
	assert.Len(t, HashToken("anything"), 64)
	assert.NotEqual(t, HashToken("a"), HashToken("b"))
}
