package types

import "math/big"

// OneNEX is the wei value of a single whole NEX token.
var OneNEX = big.NewInt(1_000_000_000_000_000_000)

// NEX converts a whole-token count into wei.
func NEX(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), OneNEX)
}

// Account holds the native-currency state for a single address. Balances are
// denominated in wei (1 NEX = 10^18 wei).
type Account struct {
	Nonce      uint64   `json:"nonce"`
	BalanceNEX *big.Int `json:"balanceNEX"`
}

// NewAccount returns an account with a zeroed balance.
func NewAccount() *Account {
	return &Account{BalanceNEX: big.NewInt(0)}
}

// Clone returns a deep copy so callers can mutate freely.
func (a *Account) Clone() *Account {
	if a == nil {
		return NewAccount()
	}
	clone := &Account{Nonce: a.Nonce, BalanceNEX: big.NewInt(0)}
	if a.BalanceNEX != nil {
		clone.BalanceNEX = new(big.Int).Set(a.BalanceNEX)
	}
	return clone
}
