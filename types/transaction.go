package types

import (
	"fmt"
	"time"
)

// Transaction is an immutable transfer of an amount between two parties,
// plus optional opaque metadata. The simulator does not track balances;
// sender and receiver are opaque identifiers.
type Transaction struct {
	Sender    Address           `json:"sender"`
	Receiver  Address           `json:"receiver"`
	Amount    float64           `json:"amount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp int64             `json:"timestamp"` // unix nanoseconds at construction
}

// NewTransaction creates a transaction stamped with the current wall-clock
// time. The amount must be non-negative and both parties must be set.
func NewTransaction(sender, receiver Address, amount float64, metadata map[string]string) (*Transaction, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeAmount, amount)
	}
	if sender.IsEmpty() || receiver.IsEmpty() {
		return nil, ErrEmptyAddress
	}
	return &Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Metadata:  metadata,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// txRecord is the hashing form of a transaction. Fields are declared
// in sorted-key order so the encoded record is reproducible regardless of
// how the transaction was constructed.
type txRecord struct {
	Amount    float64           `json:"amount"`
	Metadata  map[string]string `json:"metadata"`
	Receiver  string            `json:"receiver"`
	Sender    string            `json:"sender"`
	Timestamp int64             `json:"timestamp"`
}

// record returns the canonical hashing form of the transaction. Map keys in
// the metadata are sorted by encoding/json, so identical metadata always
// encodes identically.
func (tx *Transaction) record() txRecord {
	return txRecord{
		Amount:    tx.Amount,
		Metadata:  tx.Metadata,
		Receiver:  string(tx.Receiver),
		Sender:    string(tx.Sender),
		Timestamp: tx.Timestamp,
	}
}

// String renders the transaction for logs.
func (tx *Transaction) String() string {
	return fmt.Sprintf("TX(%s -> %s: %v)", tx.Sender.Short(), tx.Receiver.Short(), tx.Amount)
}
