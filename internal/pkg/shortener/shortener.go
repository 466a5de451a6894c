// Package shortener generates short random codes.
package shortener

import (
	"crypto/rand"
	"fmt"
)

// Affiliate codes skip characters that read alike (0/O, 1/I).
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateCode creates an upper-case referral code that is easy to read aloud.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	maxRandomByte := 256 - 256%len(codeAlphabet)

	code := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= maxRandomByte {
				continue
			}
			code[written] = codeAlphabet[int(b)%len(codeAlphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(code), nil
}
