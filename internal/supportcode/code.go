// Package supportcode generates the short numeric codes caregivers
// redeem to join a child's support group.
package supportcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a support code. Six digits keeps the
// code easy to read out loud while leaving a million-value space; codes
// are rotatable and uniqueness is enforced at the store level.
const Length = 6

// New returns a freshly generated numeric support code, zero-padded to
// Length digits.
func New() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < Length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate support code: %w", err)
	}
	return fmt.Sprintf("%0*d", Length, n), nil
}

// Valid reports whether s looks like a support code: exactly Length
// ASCII digits.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
