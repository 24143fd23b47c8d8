// Package store maps external purchase confirmations to currency
// credits and guards against double-crediting on redelivery.
package store

import "time"

// Credit is one recorded purchase crediting.
type Credit struct {
	TxnID     string
	ProductID string
	Coins     int
	At        time.Time
}

// Ledger records which purchase transactions have already been
// credited. Platforms redeliver confirmations until they are
// acknowledged, so the ledger is what makes crediting exactly-once.
type Ledger interface {
	// Credited reports whether the transaction was already applied.
	Credited(txnID string) (bool, error)
	// Record marks the transaction as applied.
	Record(c Credit) error
}

// CreditFor looks up the coin credit for a product identifier in the
// configured product table.
func CreditFor(products map[string]int, productID string) (int, bool) {
	coins, ok := products[productID]
	return coins, ok
}

// MemoryLedger is an in-process Ledger for tests and for running
// without a database. It is not durable across restarts.
type MemoryLedger struct {
	seen map[string]Credit
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[string]Credit)}
}

func (l *MemoryLedger) Credited(txnID string) (bool, error) {
	_, ok := l.seen[txnID]
	return ok, nil
}

func (l *MemoryLedger) Record(c Credit) error {
	l.seen[c.TxnID] = c
	return nil
}
