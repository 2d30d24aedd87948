package lottery

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Entropy supplies the randomness used to draw a winner from the closed
// round's players. The draw source is injected so tests can run with a
// deterministic implementation while deployments choose their own. None of
// the bundled sources is a verifiable randomness beacon; operators running
// with real value should treat the draw as trusted-operator territory.
type Entropy interface {
	// Draw returns an index in [0, n).
	Draw(n int) (int, error)
}

// CryptoEntropy draws indices from crypto/rand.
type CryptoEntropy struct{}

// Draw implements the Entropy interface.
func (CryptoEntropy) Draw(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("lottery: draw requires a positive bound (got %d)", n)
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("lottery: entropy read: %w", err)
	}
	return int(idx.Int64()), nil
}
