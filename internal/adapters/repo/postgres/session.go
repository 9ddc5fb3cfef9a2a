package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecorreia/eshop/internal/domain"
)

// Store opens GORM-backed unit-of-work sessions.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (st *Store) Session() domain.Session {
	return &Session{
		db:    st.db,
		id:    uuid.New(),
		cache: make(map[cacheKey]any),
	}
}

const (
	opInsert = iota
	opUpdate
	opDelete
)

var opNames = map[int]string{opInsert: "insert", opUpdate: "update", opDelete: "delete"}

type pendingOp struct {
	action int
	entity any
}

type cacheKey struct{ kind, id string }

const (
	kindCustomer   = "customer"
	kindFiscalInfo = "fiscal_info"
	kindItem       = "item"
	kindPurchase   = "purchase"
	kindLine       = "purchase_line"
)

// keyOf returns the identity-cache key of an entity, or false while its
// primary key is not yet assigned.
func keyOf(entity any) (cacheKey, bool) {
	switch e := entity.(type) {
	case *domain.Customer:
		if e.TaxID == "" {
			return cacheKey{}, false
		}
		return cacheKey{kindCustomer, e.TaxID}, true
	case *domain.FiscalInfo:
		if e.TaxID == "" {
			return cacheKey{}, false
		}
		return cacheKey{kindFiscalInfo, e.TaxID}, true
	case *domain.Item:
		if e.ID == 0 {
			return cacheKey{}, false
		}
		return cacheKey{kindItem, strconv.Itoa(e.ID)}, true
	case *domain.Purchase:
		if e.ID == 0 {
			return cacheKey{}, false
		}
		return cacheKey{kindPurchase, strconv.Itoa(e.ID)}, true
	case *domain.PurchaseLine:
		if !e.Key.Complete() {
			return cacheKey{}, false
		}
		return cacheKey{kindLine, e.Key.String()}, true
	}
	return cacheKey{}, false
}

func supported(entity any) bool {
	switch entity.(type) {
	case *domain.Customer, *domain.FiscalInfo, *domain.Item, *domain.Purchase, *domain.PurchaseLine:
		return true
	}
	return false
}

// Session is a unit of work over one GORM transaction. Reads are allowed
// outside a transaction; writes are queued and applied on Flush. Loaded
// entities go through a session-level identity map, so a re-read returns
// the cached instance until Clear is called.
type Session struct {
	db      *gorm.DB
	tx      *gorm.DB
	ctx     context.Context
	id      uuid.UUID
	cache   map[cacheKey]any
	pending []pendingOp
	closed  bool
}

// ID identifies the unit of work in logs.
func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) conn(ctx context.Context) *gorm.DB {
	if s.tx != nil {
		return s.tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx != nil {
		return domain.ErrTransactionActive
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return &domain.PersistenceError{Op: "begin", Err: tx.Error}
	}
	s.tx = tx
	s.ctx = ctx
	return nil
}

func (s *Session) Commit() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return domain.ErrNoTransaction
	}
	if err := s.Flush(s.ctx); err != nil {
		return err
	}
	if err := s.tx.Commit().Error; err != nil {
		s.tx.Rollback()
		s.endTx()
		return &domain.PersistenceError{Op: "commit", Err: err}
	}
	s.endTx()
	return nil
}

func (s *Session) Rollback() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return domain.ErrNoTransaction
	}
	err := s.tx.Rollback().Error
	s.endTx()
	if err != nil {
		return &domain.PersistenceError{Op: "rollback", Err: err}
	}
	return nil
}

func (s *Session) endTx() {
	s.tx = nil
	s.ctx = nil
	s.pending = nil
}

func (s *Session) enqueue(action int, entity any) error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return domain.ErrNoTransaction
	}
	if !supported(entity) {
		return fmt.Errorf("unsupported entity type %T", entity)
	}
	s.pending = append(s.pending, pendingOp{action: action, entity: entity})
	return nil
}

func (s *Session) Persist(entity any) error {
	if l, ok := entity.(*domain.PurchaseLine); ok && !l.Persistable() {
		return fmt.Errorf("purchase line %s: both parent ids must be assigned before persist", l.Key)
	}
	return s.enqueue(opInsert, entity)
}

func (s *Session) Merge(entity any) error { return s.enqueue(opUpdate, entity) }

func (s *Session) Remove(entity any) error { return s.enqueue(opDelete, entity) }

// Flush applies the pending writes in order inside the active transaction.
// Generated ids are assigned by the insert statements. A failing write rolls
// the whole transaction back.
func (s *Session) Flush(ctx context.Context) error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return domain.ErrNoTransaction
	}
	for len(s.pending) > 0 {
		op := s.pending[0]
		s.pending = s.pending[1:]

		db := s.tx.WithContext(ctx)
		var err error
		switch op.action {
		case opInsert:
			err = db.Create(op.entity).Error
		case opUpdate:
			err = db.Save(op.entity).Error
		case opDelete:
			err = db.Delete(op.entity).Error
		}
		if err != nil {
			s.tx.Rollback()
			s.endTx()
			return &domain.PersistenceError{Op: opNames[op.action], Err: err}
		}
		if k, ok := keyOf(op.entity); ok {
			if op.action == opDelete {
				delete(s.cache, k)
			} else {
				s.cache[k] = op.entity
			}
		}
	}
	return nil
}

func (s *Session) Clear() {
	s.cache = make(map[cacheKey]any)
	s.pending = nil
}

func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if s.tx != nil {
		s.tx.Rollback()
		s.endTx()
	}
	s.closed = true
	s.cache = nil
	return nil
}

// canonical routes a freshly loaded entity through the identity map: a
// cached instance wins over the new copy.
func (s *Session) canonical(entity any) any {
	k, ok := keyOf(entity)
	if !ok {
		return entity
	}
	if cached, hit := s.cache[k]; hit {
		return cached
	}
	s.cache[k] = entity
	return entity
}

func wrapRead(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return &domain.PersistenceError{Op: "find", Err: err}
}

func (s *Session) FindCustomer(ctx context.Context, taxID string) (*domain.Customer, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if cached, ok := s.cache[cacheKey{kindCustomer, taxID}]; ok {
		return cached.(*domain.Customer), nil
	}
	var c domain.Customer
	if err := s.conn(ctx).First(&c, "tax_id = ?", taxID).Error; err != nil {
		return nil, wrapRead(err)
	}
	return s.canonical(&c).(*domain.Customer), nil
}

func (s *Session) FindFiscalInfo(ctx context.Context, taxID string) (*domain.FiscalInfo, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if cached, ok := s.cache[cacheKey{kindFiscalInfo, taxID}]; ok {
		return cached.(*domain.FiscalInfo), nil
	}
	var f domain.FiscalInfo
	if err := s.conn(ctx).First(&f, "tax_id = ?", taxID).Error; err != nil {
		return nil, wrapRead(err)
	}
	return s.canonical(&f).(*domain.FiscalInfo), nil
}

func (s *Session) FindItem(ctx context.Context, id int) (*domain.Item, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if cached, ok := s.cache[cacheKey{kindItem, strconv.Itoa(id)}]; ok {
		return cached.(*domain.Item), nil
	}
	var it domain.Item
	if err := s.conn(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, wrapRead(err)
	}
	return s.canonical(&it).(*domain.Item), nil
}

func (s *Session) FindPurchase(ctx context.Context, id int) (*domain.Purchase, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if cached, ok := s.cache[cacheKey{kindPurchase, strconv.Itoa(id)}]; ok {
		return cached.(*domain.Purchase), nil
	}
	var p domain.Purchase
	if err := s.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapRead(err)
	}
	return s.canonical(&p).(*domain.Purchase), nil
}

func (s *Session) FindLine(ctx context.Context, key domain.LineKey) (*domain.PurchaseLine, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if !key.Complete() {
		return nil, domain.ErrNotFound
	}
	if cached, ok := s.cache[cacheKey{kindLine, key.String()}]; ok {
		return cached.(*domain.PurchaseLine), nil
	}
	var l domain.PurchaseLine
	err := s.conn(ctx).First(&l, "item_id = ? AND purchase_id = ?", *key.ItemID, *key.PurchaseID).Error
	if err != nil {
		return nil, wrapRead(err)
	}
	return s.canonical(&l).(*domain.PurchaseLine), nil
}

func (s *Session) Items(ctx context.Context) ([]*domain.Item, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	var rows []*domain.Item
	if err := s.conn(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	for i := range rows {
		rows[i] = s.canonical(rows[i]).(*domain.Item)
	}
	return rows, nil
}

func (s *Session) PurchasesByCustomer(ctx context.Context, taxID string) ([]*domain.Purchase, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	var rows []*domain.Purchase
	err := s.conn(ctx).Where("customer_tax_id = ?", taxID).Order("id").Find(&rows).Error
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	for i := range rows {
		rows[i] = s.canonical(rows[i]).(*domain.Purchase)
	}
	return rows, nil
}

func (s *Session) LinesByPurchase(ctx context.Context, purchaseID int) ([]*domain.PurchaseLine, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	var rows []*domain.PurchaseLine
	err := s.conn(ctx).Where("purchase_id = ?", purchaseID).Order("item_id").Find(&rows).Error
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	for i := range rows {
		rows[i] = s.canonical(rows[i]).(*domain.PurchaseLine)
	}
	return rows, nil
}

func (s *Session) LinesByItem(ctx context.Context, itemID int) ([]*domain.PurchaseLine, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	var rows []*domain.PurchaseLine
	err := s.conn(ctx).Where("item_id = ?", itemID).Order("purchase_id").Find(&rows).Error
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	for i := range rows {
		rows[i] = s.canonical(rows[i]).(*domain.PurchaseLine)
	}
	return rows, nil
}
