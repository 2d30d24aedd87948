package types

import (
	"math/big"
	"testing"
)

func TestParseNEX(t *testing.T) {
	cases := []struct {
		in   string
		want *big.Int
	}{
		{"1", NEX(1)},
		{"10", NEX(10)},
		{"0", big.NewInt(0)},
		{"0.5", new(big.Int).Div(OneNEX, big.NewInt(2))},
		{" 2 ", NEX(2)},
		{"0.000000000000000001", big.NewInt(1)},
	}
	for _, tc := range cases {
		got, err := ParseNEX(tc.in)
		if err != nil {
			t.Fatalf("ParseNEX(%q): %v", tc.in, err)
		}
		if got.Cmp(tc.want) != 0 {
			t.Fatalf("ParseNEX(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseNEXRejectsInvalidAmounts(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "1e", "0.0000000000000000001"} {
		if _, err := ParseNEX(in); err == nil {
			t.Fatalf("ParseNEX(%q): expected error", in)
		}
	}
}

func TestAccountClone(t *testing.T) {
	account := &Account{Nonce: 3, BalanceNEX: NEX(2)}
	clone := account.Clone()
	clone.BalanceNEX.Add(clone.BalanceNEX, NEX(1))
	if account.BalanceNEX.Cmp(NEX(2)) != 0 {
		t.Fatal("clone shares the balance pointer")
	}

	var nilAccount *Account
	fresh := nilAccount.Clone()
	if fresh == nil || fresh.BalanceNEX.Sign() != 0 {
		t.Fatal("nil clone should yield a zeroed account")
	}
}
