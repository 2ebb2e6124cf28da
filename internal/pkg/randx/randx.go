/*
Package randx generates identifiers used for correlation in logs and headers.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars is the alphabet of ShortID.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// PageIDLength is the length of console page identifiers.
	PageIDLength = 8
)

// RequestID returns a UUID v4 string for the X-Request-ID header.
func RequestID() string {
	return uuid.NewString()
}

// PageID returns a short random Base62 identifier for a console page connection.
func PageID() (string, error) {
	return ShortID(PageIDLength)
}

// ShortID returns n cryptographically random Base62 characters.
func ShortID(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(Base62Chars)))

	for i := range out {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate short id: %w", err)
		}
		out[i] = Base62Chars[num.Int64()]
	}

	return string(out), nil
}
