package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// joinCodeAlphabet omits 0/O and 1/I/L so codes survive being read aloud.
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// JoinCodeLength is the number of characters in a generated join code.
const JoinCodeLength = 8

// CodeGenerator produces candidate join codes.
type CodeGenerator func() (string, error)

// RandomJoinCode draws JoinCodeLength characters from crypto/rand.
func RandomJoinCode() (string, error) {
	var b strings.Builder
	b.Grow(JoinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < JoinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		b.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// normalizeJoinCode makes code lookups case-insensitive and whitespace tolerant.
func normalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
