package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/segmentio/ksuid"
)

// New returns an opaque, sortable identifier suitable for activation codes.
func New() string {
	return ksuid.New().String()
}

// NumericCode returns a random numeric string of the given length, used for
// phone verification codes. Leading zeros are preserved.
func NumericCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
