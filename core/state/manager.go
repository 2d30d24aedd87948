package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"nexledger/core/types"
	"nexledger/storage"
)

var (
	// ErrInsufficientBalance fails any transfer whose sender cannot cover
	// the amount. It must unwind the enclosing operation.
	ErrInsufficientBalance = errors.New("state: insufficient balance")

	errTxnOpen   = errors.New("state: transaction already open")
	errNoTxnOpen = errors.New("state: no transaction open")
)

// Manager mediates all ledger reads and writes against a key-value store.
// Mutating operations run inside a Begin/Commit window: writes accumulate in
// an overlay buffer that Rollback discards wholesale, which is how the node
// guarantees that a failed call leaves no partial effects. The Manager is
// not safe for concurrent use; the node serialises every call behind one
// lock.
type Manager struct {
	db      storage.Database
	overlay map[string][]byte
}

// NewManager wraps the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Begin opens the write overlay. Nesting is a programming error.
func (m *Manager) Begin() error {
	if m.overlay != nil {
		return errTxnOpen
	}
	m.overlay = make(map[string][]byte)
	return nil
}

// Commit flushes the overlay to the underlying database and closes it.
func (m *Manager) Commit() error {
	if m.overlay == nil {
		return errNoTxnOpen
	}
	for key, value := range m.overlay {
		if err := m.db.Put([]byte(key), value); err != nil {
			return fmt.Errorf("state: commit %q: %w", key, err)
		}
	}
	m.overlay = nil
	return nil
}

// Rollback discards the overlay and every write buffered in it.
func (m *Manager) Rollback() {
	m.overlay = nil
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	if m.overlay != nil {
		if value, ok := m.overlay[string(key)]; ok {
			return value, true, nil
		}
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (m *Manager) put(key []byte, value []byte) error {
	if m.overlay != nil {
		m.overlay[string(key)] = value
		return nil
	}
	return m.db.Put(key, value)
}

func (m *Manager) getJSON(key []byte, out interface{}) (bool, error) {
	raw, ok, err := m.get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %q: %w", string(key), err)
	}
	return true, nil
}

func (m *Manager) putJSON(key []byte, in interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", string(key), err)
	}
	return m.put(key, raw)
}

// GenesisApplied reports whether the genesis allocation already ran on this
// store.
func (m *Manager) GenesisApplied() (bool, error) {
	_, ok, err := m.get([]byte(genesisKey))
	return ok, err
}

// MarkGenesisApplied records that the genesis allocation ran.
func (m *Manager) MarkGenesisApplied() error {
	return m.put([]byte(genesisKey), []byte{1})
}

// --- Accounts ---

// GetAccount loads the account for addr, returning a zero-balance account
// when none has been written yet.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	account := types.NewAccount()
	if _, err := m.getJSON(accountKey(addr), account); err != nil {
		return nil, err
	}
	if account.BalanceNEX == nil {
		account.BalanceNEX = big.NewInt(0)
	}
	return account, nil
}

// PutAccount persists the account for addr.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		return errors.New("state: nil account")
	}
	return m.putJSON(accountKey(addr), account)
}

// BalanceOf returns the spendable balance for addr.
func (m *Manager) BalanceOf(addr [20]byte) (*big.Int, error) {
	account, err := m.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.BalanceNEX, nil
}

// Mint credits freshly issued funds to addr. Only genesis allocation uses
// it; everything after genesis moves value with Transfer.
func (m *Manager) Mint(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("state: mint amount must be non-negative")
	}
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	account.BalanceNEX = new(big.Int).Add(account.BalanceNEX, amount)
	return m.PutAccount(addr, account)
}

// Transfer moves amount from one account to another. It fails without side
// effects when the amount is invalid or the sender balance is insufficient;
// the enclosing transaction then discards any earlier writes of the call.
func (m *Manager) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("state: transfer amount must be non-negative")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	sender, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if sender.BalanceNEX.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	recipient, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	sender.BalanceNEX = new(big.Int).Sub(sender.BalanceNEX, amount)
	recipient.BalanceNEX = new(big.Int).Add(recipient.BalanceNEX, amount)
	if err := m.PutAccount(from, sender); err != nil {
		return err
	}
	return m.PutAccount(to, recipient)
}
