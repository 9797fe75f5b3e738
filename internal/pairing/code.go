package pairing

import (
	"crypto/rand"
	"math/big"
)

// CodeLength is the number of digits in a pairing code.
const CodeLength = 6

var ten = big.NewInt(10)

// generateCode returns a fixed-length numeric one-time code. Each digit is
// an independent uniform draw.
func generateCode() string {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			panic("pairing: crypto/rand unavailable: " + err.Error())
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code)
}
