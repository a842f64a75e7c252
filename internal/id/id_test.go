package id

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shareCodePattern = regexp.MustCompile(`^[a-z0-9]{8}$`)
	tokenPattern     = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

func TestShareCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := ShareCode()
		require.NoError(t, err)
		assert.Regexp(t, shareCodePattern, code)
	}
}

func TestShareCode_Uniqueness(t *testing.T) {
	codes := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		code, err := ShareCode()
		require.NoError(t, err)
		assert.False(t, codes[code], "code should be unique: %s", code)
		codes[code] = true
	}

	assert.Len(t, codes, count)
}

func TestSessionToken_Format(t *testing.T) {
	token, err := SessionToken()
	require.NoError(t, err)

	assert.Len(t, token, TokenLength)
	assert.Regexp(t, tokenPattern, token)
}

func TestSessionToken_Uniqueness(t *testing.T) {
	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := SessionToken()
		require.NoError(t, err)
		assert.False(t, tokens[token])
		tokens[token] = true
	}
}

func TestMustShareCode(t *testing.T) {
	assert.Regexp(t, shareCodePattern, MustShareCode())
}

func BenchmarkShareCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ShareCode()
	}
}
