// Package machine implements the vending logic on top of the entity store:
// input validation, the purchase state transition, and the machine-state view.
package machine

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vendio/machine-api/internal/config"
	"github.com/vendio/machine-api/internal/model"
	"github.com/vendio/machine-api/internal/store"
)

// Service validates inputs and applies machine operations to the store.
type Service struct {
	cfg config.Config
	st  *store.Store

	// Per-code locks serialize concurrent vends on the same slot so the
	// check-and-decrement sequence never interleaves. Vends on different
	// slots do not block each other.
	lockMu    sync.Mutex
	slotLocks map[string]*sync.Mutex

	vendsTotal  atomic.Uint64
	vendsFailed atomic.Uint64
}

// NewService constructs a Service with the given config and store.
func NewService(cfg config.Config, st *store.Store) *Service {
	return &Service{cfg: cfg, st: st, slotLocks: make(map[string]*sync.Mutex)}
}

func (s *Service) slotLock(code string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.slotLocks[code]
	if !ok {
		l = &sync.Mutex{}
		s.slotLocks[code] = l
	}
	return l
}

// Vend performs one purchase: resolve the slot, verify it has an assigned
// product, stock, and a sufficient payment, then decrement the quantity by
// one and record the transaction. Checks run in that fixed order and the
// first failure ends the request with no side effects. Overpayment is
// accepted as-is; no change is computed.
func (s *Service) Vend(code string, amount int64) (model.Transaction, error) {
	if len(code) != 2 {
		return model.Transaction{}, validationErrorf("slot must be exactly 2 characters")
	}
	if amount <= 0 {
		return model.Transaction{}, validationErrorf("amount must be greater than 0")
	}

	l := s.slotLock(code)
	l.Lock()
	defer l.Unlock()

	sl, err := s.st.SlotByCode(code)
	if err != nil {
		s.vendsFailed.Add(1)
		return model.Transaction{}, &SlotNotFoundError{Code: code}
	}
	if sl.ProductID == nil {
		s.vendsFailed.Add(1)
		return model.Transaction{}, ErrNoProduct
	}
	if sl.Quantity == 0 {
		s.vendsFailed.Add(1)
		return model.Transaction{}, ErrEmptySlot
	}
	p, err := s.st.Product(*sl.ProductID)
	if err != nil {
		// The assigned product was deleted out from under the slot;
		// treat it the same as an unassigned slot.
		s.vendsFailed.Add(1)
		return model.Transaction{}, ErrNoProduct
	}
	if amount < p.Price {
		s.vendsFailed.Add(1)
		return model.Transaction{}, &InsufficientPaymentError{Price: p.Price, Amount: amount}
	}

	t, err := s.st.ApplyVend(sl.ID, amount, time.Now().UTC())
	if err != nil {
		// The slot was drained or unassigned between the checks above and
		// the commit by a non-vend update.
		s.vendsFailed.Add(1)
		if errors.Is(err, store.ErrConflict) {
			return model.Transaction{}, ErrEmptySlot
		}
		return model.Transaction{}, &SlotNotFoundError{Code: code}
	}
	s.vendsTotal.Add(1)
	return t, nil
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(name string, price int64) (model.Product, error) {
	if err := validateProductName(name); err != nil {
		return model.Product{}, err
	}
	if err := validateProductPrice(price); err != nil {
		return model.Product{}, err
	}
	return s.st.CreateProduct(name, price)
}

// UpdateProduct applies a partial product mutation; only supplied fields are
// validated and written.
func (s *Service) UpdateProduct(id int64, upd model.ProductUpdate) (model.Product, error) {
	if upd.Name != nil {
		if err := validateProductName(*upd.Name); err != nil {
			return model.Product{}, err
		}
	}
	if upd.Price != nil {
		if err := validateProductPrice(*upd.Price); err != nil {
			return model.Product{}, err
		}
	}
	return s.st.UpdateProduct(id, upd)
}

// Product returns one product by id.
func (s *Service) Product(id int64) (model.Product, error) { return s.st.Product(id) }

// Products returns all products in insertion order.
func (s *Service) Products() []model.Product { return s.st.Products() }

// DeleteProduct removes a product. Slots and historical transactions that
// reference it are left untouched.
func (s *Service) DeleteProduct(id int64) error { return s.st.DeleteProduct(id) }

// CreateSlot validates and stores a new slot. A nil quantity defaults to 0.
func (s *Service) CreateSlot(code string, capacity int64, productID, quantity *int64) (model.Slot, error) {
	if err := s.validateCode(code); err != nil {
		return model.Slot{}, err
	}
	if capacity <= 0 || capacity > s.cfg.ProductsPerSlot {
		return model.Slot{}, validationErrorf("capacity must be between 1 and %d", s.cfg.ProductsPerSlot)
	}
	var q int64
	if quantity != nil {
		q = *quantity
	}
	if q < 0 || q > s.cfg.ProductsPerSlot {
		return model.Slot{}, validationErrorf("quantity must be between 0 and %d", s.cfg.ProductsPerSlot)
	}
	if q > capacity {
		return model.Slot{}, validationErrorf("quantity must not exceed capacity %d", capacity)
	}
	if productID != nil {
		if err := s.productMustExist(*productID); err != nil {
			return model.Slot{}, err
		}
	}
	return s.st.CreateSlot(code, capacity, q, productID)
}

// UpdateSlot applies a partial slot mutation. A slot without a product can
// only be updated if the payload assigns one. Quantity is checked non-negative
// but not re-checked against capacity.
func (s *Service) UpdateSlot(id int64, upd model.SlotUpdate) (model.Slot, error) {
	sl, err := s.st.Slot(id)
	if err != nil {
		return model.Slot{}, err
	}
	if sl.ProductID == nil && upd.ProductID == nil {
		return model.Slot{}, ErrProductRequired
	}
	if upd.ProductID != nil {
		if err := s.productMustExist(*upd.ProductID); err != nil {
			return model.Slot{}, err
		}
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return model.Slot{}, validationErrorf("quantity must be greater than or equal to 0")
	}
	return s.st.UpdateSlot(id, upd)
}

// Slot returns one slot by id.
func (s *Service) Slot(id int64) (model.Slot, error) { return s.st.Slot(id) }

// Slots returns all slots in insertion order.
func (s *Service) Slots() []model.Slot { return s.st.Slots() }

// DeleteSlot removes a slot. Historical transactions keep their slot_id.
func (s *Service) DeleteSlot(id int64) error { return s.st.DeleteSlot(id) }

// Transaction returns one ledger entry by id.
func (s *Service) Transaction(id int64) (model.Transaction, error) { return s.st.Transaction(id) }

// Transactions returns the full ledger in insertion order.
func (s *Service) Transactions() []model.Transaction { return s.st.Transactions() }

// Info assembles the full machine-state snapshot: every slot, product, and
// transaction, each list independently fetched in insertion order.
func (s *Service) Info() model.MachineInfo {
	return model.MachineInfo{
		Slots:        s.st.Slots(),
		Products:     s.st.Products(),
		Transactions: s.st.Transactions(),
	}
}

// Stats reports record counts and vend counters for observability.
type Stats struct {
	Products     int
	Slots        int
	Transactions int
	VendsTotal   uint64
	VendsFailed  uint64
}

// Stats returns current counters.
func (s *Service) Stats() Stats {
	p, sl, tx := s.st.Counts()
	return Stats{
		Products:     p,
		Slots:        sl,
		Transactions: tx,
		VendsTotal:   s.vendsTotal.Load(),
		VendsFailed:  s.vendsFailed.Load(),
	}
}
