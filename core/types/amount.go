package types

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseNEX converts a decimal NEX amount ("1", "0.5") into wei. Amounts
// must be non-negative and representable in whole wei.
func ParseNEX(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	rat, ok := new(big.Rat).SetString(trimmed)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if rat.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	wei := new(big.Rat).Mul(rat, new(big.Rat).SetInt(OneNEX))
	if !wei.IsInt() {
		return nil, fmt.Errorf("amount %q has sub-wei precision", value)
	}
	return new(big.Int).Set(wei.Num()), nil
}
