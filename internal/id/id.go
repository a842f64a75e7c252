// Package id generates the random identifiers handed out to clients.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ShareCodeAlphabet is lowercase alphanumerics, so codes survive being read aloud or typed on a phone.
	ShareCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// ShareCodeLength is the number of characters in a preset share code.
	ShareCodeLength = 8

	tokenAlphabet = "0123456789abcdef"
	// TokenLength is the length of an admin bearer token (256 bits of hex).
	TokenLength = 64
)

// ShareCode returns a random 8 character code drawn from [a-z0-9].
// Uniqueness is the caller's concern.
func ShareCode() (string, error) {
	code, err := gonanoid.Generate(ShareCodeAlphabet, ShareCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	return code, nil
}

// SessionToken returns a 64 character lowercase hex token.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func SessionToken() (string, error) {
	token, err := gonanoid.Generate(tokenAlphabet, TokenLength)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}

// MustShareCode is like ShareCode but panics if generation fails.
// Use this only where failure should crash the program (e.g., seeding).
func MustShareCode() string {
	code, err := ShareCode()
	if err != nil {
		panic(fmt.Sprintf("failed to generate share code: %v", err))
	}
	return code
}
