// Package store implements the in-memory entity store backing the machine:
// products, slots, and the append-only transaction ledger.
package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vendio/machine-api/internal/model"
)

// sequencer provides monotonically increasing record ids.
type sequencer struct{ n atomic.Int64 }

func (s *sequencer) next() int64 { return s.n.Add(1) }

// Store holds all machine records. A single mutex serializes every mutation,
// so each exported operation is atomic; callers get copies, never internal
// pointers. Listing order is insertion order.
type Store struct {
	mu sync.Mutex

	products map[int64]model.Product
	slots    map[int64]model.Slot
	txs      map[int64]model.Transaction

	productOrder []int64
	slotOrder    []int64
	txOrder      []int64

	nameIndex map[string]int64
	codeIndex map[string]int64

	productSeq sequencer
	slotSeq    sequencer
	txSeq      sequencer
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		products:  make(map[int64]model.Product),
		slots:     make(map[int64]model.Slot),
		txs:       make(map[int64]model.Transaction),
		nameIndex: make(map[string]int64),
		codeIndex: make(map[string]int64),
	}
}

// CreateProduct stores a new product and assigns its id.
// A duplicate name yields ErrConflict and no state change.
func (s *Store) CreateProduct(name string, price int64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nameIndex[name]; exists {
		return model.Product{}, ErrConflict
	}
	p := model.Product{ID: s.productSeq.next(), Name: name, Price: price}
	s.products[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	s.nameIndex[name] = p.ID
	return p, nil
}

// Product returns the product with the given id.
func (s *Store) Product(id int64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

// Products returns all products in insertion order.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, s.products[id])
	}
	return out
}

// UpdateProduct merges the non-nil fields of upd into the stored product.
// Renaming to an already-taken name yields ErrConflict.
func (s *Store) UpdateProduct(id int64, upd model.ProductUpdate) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, ErrNotFound
	}
	if upd.Name != nil && *upd.Name != p.Name {
		if _, taken := s.nameIndex[*upd.Name]; taken {
			return model.Product{}, ErrConflict
		}
		delete(s.nameIndex, p.Name)
		p.Name = *upd.Name
		s.nameIndex[p.Name] = id
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	s.products[id] = p
	return p, nil
}

// DeleteProduct removes the product. Slots and transactions that reference
// it keep their ids; there is no cascade.
func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	delete(s.nameIndex, p.Name)
	s.productOrder = removeID(s.productOrder, id)
	return nil
}

// CreateSlot stores a new slot and assigns its id.
// A duplicate code yields ErrConflict and no state change.
func (s *Store) CreateSlot(code string, capacity, quantity int64, productID *int64) (model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.codeIndex[code]; exists {
		return model.Slot{}, ErrConflict
	}
	sl := model.Slot{
		ID:        s.slotSeq.next(),
		Code:      code,
		ProductID: productID,
		Quantity:  quantity,
		Capacity:  capacity,
	}
	s.slots[sl.ID] = sl
	s.slotOrder = append(s.slotOrder, sl.ID)
	s.codeIndex[code] = sl.ID
	return sl, nil
}

// Slot returns the slot with the given id.
func (s *Store) Slot(id int64) (model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	if !ok {
		return model.Slot{}, ErrNotFound
	}
	return sl, nil
}

// SlotByCode returns the slot with the given code.
func (s *Store) SlotByCode(code string) (model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.codeIndex[code]
	if !ok {
		return model.Slot{}, ErrNotFound
	}
	return s.slots[id], nil
}

// Slots returns all slots in insertion order.
func (s *Store) Slots() []model.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Slot, 0, len(s.slotOrder))
	for _, id := range s.slotOrder {
		out = append(out, s.slots[id])
	}
	return out
}

// UpdateSlot merges the non-nil fields of upd into the stored slot.
func (s *Store) UpdateSlot(id int64, upd model.SlotUpdate) (model.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	if !ok {
		return model.Slot{}, ErrNotFound
	}
	if upd.ProductID != nil {
		pid := *upd.ProductID
		sl.ProductID = &pid
	}
	if upd.Quantity != nil {
		sl.Quantity = *upd.Quantity
	}
	s.slots[id] = sl
	return sl, nil
}

// DeleteSlot removes the slot. Historical transactions keep their slot_id.
func (s *Store) DeleteSlot(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.slots, id)
	delete(s.codeIndex, sl.Code)
	s.slotOrder = removeID(s.slotOrder, id)
	return nil
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(id int64) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txs[id]
	if !ok {
		return model.Transaction{}, ErrNotFound
	}
	return t, nil
}

// Transactions returns the full ledger in insertion order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, 0, len(s.txOrder))
	for _, id := range s.txOrder {
		out = append(out, s.txs[id])
	}
	return out
}

// ApplyVend commits a purchase in one critical section: it re-checks that the
// slot still exists, still has a product, and still has stock, decrements the
// quantity by exactly one, and appends the ledger entry. A slot drained or
// unassigned between the caller's checks and the commit yields ErrConflict
// with nothing written.
func (s *Store) ApplyVend(slotID, amount int64, now time.Time) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[slotID]
	if !ok {
		return model.Transaction{}, ErrNotFound
	}
	if sl.ProductID == nil || sl.Quantity <= 0 {
		return model.Transaction{}, ErrConflict
	}
	sl.Quantity--
	s.slots[slotID] = sl

	t := model.Transaction{
		ID:        s.txSeq.next(),
		ProductID: *sl.ProductID,
		SlotID:    sl.ID,
		Amount:    amount,
		Date:      now,
	}
	s.txs[t.ID] = t
	s.txOrder = append(s.txOrder, t.ID)
	return t, nil
}

// Counts reports the number of stored records per kind.
func (s *Store) Counts() (products, slots, transactions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products), len(s.slots), len(s.txs)
}

func removeID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
