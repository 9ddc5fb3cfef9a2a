package domain

import "context"

// Session is the unit of work the domain services require from storage:
// find-by-id and parametrized reads, an explicit transaction boundary,
// pending writes applied on Flush (which makes generated ids available) and
// a session-level identity cache dropped by Clear. A cleared cache is the
// only guarantee that a re-read hits the backing store; multi-phase
// workflows that write and then re-read must Clear between phases. A session
// serves a single logical thread.
type Session interface {
	FindCustomer(ctx context.Context, taxID string) (*Customer, error)
	FindFiscalInfo(ctx context.Context, taxID string) (*FiscalInfo, error)
	FindItem(ctx context.Context, id int) (*Item, error)
	FindPurchase(ctx context.Context, id int) (*Purchase, error)
	FindLine(ctx context.Context, key LineKey) (*PurchaseLine, error)

	Items(ctx context.Context) ([]*Item, error)
	PurchasesByCustomer(ctx context.Context, taxID string) ([]*Purchase, error)
	LinesByPurchase(ctx context.Context, purchaseID int) ([]*PurchaseLine, error)
	LinesByItem(ctx context.Context, itemID int) ([]*PurchaseLine, error)

	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// Persist schedules an insert, Merge an update, Remove a delete. All
	// three require an active transaction.
	Persist(entity any) error
	Merge(entity any) error
	Remove(entity any) error

	// Flush applies the pending writes inside the active transaction;
	// generated ids are assigned here. On failure the transaction is rolled
	// back and a *PersistenceError is returned.
	Flush(ctx context.Context) error

	// Clear drops the identity cache and any pending writes.
	Clear()
	Close() error
}

// Store opens unit-of-work sessions.
type Store interface {
	Session() Session
}
