package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vendio/machine-api/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestCreateAndGetProduct(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Kinder Bueno", 290)
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.Equal(t, "Kinder Bueno", p.Name)
	require.Equal(t, int64(290), p.Price)

	got, err := s.Product(p.ID)
	require.NoError(t, err)
	require.Equal(t, p, got)

	_, err = s.Product(999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateProductNameConflict(t *testing.T) {
	s := New()
	orig, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)

	_, err = s.CreateProduct("Twix", 250)
	require.ErrorIs(t, err, ErrConflict)

	// The original record is unchanged and remains the only one.
	got, err := s.Product(orig.ID)
	require.NoError(t, err)
	require.Equal(t, int64(180), got.Price)
	require.Len(t, s.Products(), 1)
}

func TestProductsInsertionOrder(t *testing.T) {
	s := New()
	names := []string{"Kinder Bueno", "Twix", "Puleva"}
	for _, n := range names {
		_, err := s.CreateProduct(n, 100)
		require.NoError(t, err)
	}
	ps := s.Products()
	require.Len(t, ps, len(names))
	for i, n := range names {
		require.Equal(t, n, ps[i].Name)
	}
}

func TestUpdateProductPartialMerge(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Kinder Bueno", 290)
	require.NoError(t, err)

	name := "Doritos"
	got, err := s.UpdateProduct(p.ID, model.ProductUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Doritos", got.Name)
	require.Equal(t, int64(290), got.Price)

	got, err = s.UpdateProduct(p.ID, model.ProductUpdate{Price: int64p(250)})
	require.NoError(t, err)
	require.Equal(t, "Doritos", got.Name)
	require.Equal(t, int64(250), got.Price)
}

func TestUpdateProductRenameConflict(t *testing.T) {
	s := New()
	_, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)
	p, err := s.CreateProduct("Doritos", 250)
	require.NoError(t, err)

	taken := "Twix"
	_, err = s.UpdateProduct(p.ID, model.ProductUpdate{Name: &taken})
	require.ErrorIs(t, err, ErrConflict)

	// Renaming frees the old name for reuse.
	fresh := "Bits"
	_, err = s.UpdateProduct(p.ID, model.ProductUpdate{Name: &fresh})
	require.NoError(t, err)
	_, err = s.CreateProduct("Doritos", 100)
	require.NoError(t, err)
}

func TestDeleteProduct(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(p.ID))
	_, err = s.Product(p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteProduct(p.ID), ErrNotFound)

	// Deleting frees the unique name.
	_, err = s.CreateProduct("Twix", 200)
	require.NoError(t, err)
}

func TestSlotCRUD(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)

	sl, err := s.CreateSlot("A1", 5, 2, &p.ID)
	require.NoError(t, err)
	require.NotZero(t, sl.ID)
	require.Equal(t, "A1", sl.Code)
	require.Equal(t, int64(2), sl.Quantity)
	require.Equal(t, int64(5), sl.Capacity)
	require.NotNil(t, sl.ProductID)

	_, err = s.CreateSlot("A1", 3, 0, nil)
	require.ErrorIs(t, err, ErrConflict)

	byCode, err := s.SlotByCode("A1")
	require.NoError(t, err)
	require.Equal(t, sl.ID, byCode.ID)
	_, err = s.SlotByCode("Z9")
	require.ErrorIs(t, err, ErrNotFound)

	got, err := s.UpdateSlot(sl.ID, model.SlotUpdate{Quantity: int64p(4)})
	require.NoError(t, err)
	require.Equal(t, int64(4), got.Quantity)
	require.Equal(t, p.ID, *got.ProductID)

	require.NoError(t, s.DeleteSlot(sl.ID))
	_, err = s.Slot(sl.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Code is free again after delete.
	_, err = s.CreateSlot("A1", 3, 0, nil)
	require.NoError(t, err)
}

func TestApplyVend(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)
	sl, err := s.CreateSlot("B4", 5, 2, &p.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	tx, err := s.ApplyVend(sl.ID, 200, now)
	require.NoError(t, err)
	require.Equal(t, p.ID, tx.ProductID)
	require.Equal(t, sl.ID, tx.SlotID)
	require.Equal(t, int64(200), tx.Amount)
	require.Equal(t, now, tx.Date)

	got, err := s.Slot(sl.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Quantity)

	_, err = s.ApplyVend(sl.ID, 200, now)
	require.NoError(t, err)

	// Third vend bottoms out: the slot is empty and nothing is written.
	_, err = s.ApplyVend(sl.ID, 200, now)
	require.ErrorIs(t, err, ErrConflict)
	got, err = s.Slot(sl.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Quantity)
	require.Len(t, s.Transactions(), 2)
}

func TestApplyVendUnknownSlot(t *testing.T) {
	s := New()
	_, err := s.ApplyVend(42, 100, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyVendNoProduct(t *testing.T) {
	s := New()
	sl, err := s.CreateSlot("A1", 5, 0, nil)
	require.NoError(t, err)
	_, err = s.ApplyVend(sl.ID, 100, time.Now())
	require.ErrorIs(t, err, ErrConflict)
}

func TestTransactionsLedger(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)
	sl, err := s.CreateSlot("A1", 5, 3, &p.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.ApplyVend(sl.ID, 180, time.Now())
		require.NoError(t, err)
	}
	txs := s.Transactions()
	require.Len(t, txs, 3)
	for i := 1; i < len(txs); i++ {
		require.Greater(t, txs[i].ID, txs[i-1].ID)
	}

	got, err := s.Transaction(txs[0].ID)
	require.NoError(t, err)
	require.Equal(t, txs[0], got)
	_, err = s.Transaction(999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCounts(t *testing.T) {
	s := New()
	p, err := s.CreateProduct("Twix", 180)
	require.NoError(t, err)
	_, err = s.CreateSlot("A1", 5, 1, &p.ID)
	require.NoError(t, err)
	products, slots, txs := s.Counts()
	require.Equal(t, 1, products)
	require.Equal(t, 1, slots)
	require.Equal(t, 0, txs)
}
