package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// tempPasswordChars excludes ambiguous characters (I, l, O, 0, 1)
const tempPasswordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789!@#$%"

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateTemporaryPassword produces a random 14-character password for
// newly issued client credentials
func GenerateTemporaryPassword() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(tempPasswordChars)))
	for i := 0; i < 14; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(tempPasswordChars[n.Int64()])
	}
	return sb.String(), nil
}

// GenerateCourierCode produces a courier code like "MSJ-3F2A9C"
func GenerateCourierCode() string {
	return "MSJ-" + strings.ToUpper(uuid.New().String()[:6])
}

// GenerateResetToken produces a random reset token and the hex digest
// stored in its place
func GenerateResetToken() (token, hash string, err error) {
	raw := make([]byte, 32)
	if _, err = rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	return token, HashToken(token), nil
}

// HashToken returns the SHA-256 hex digest of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SecureCompare compares two strings in constant time
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
