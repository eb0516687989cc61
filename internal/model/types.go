// Package model defines domain types used by the service.
package model

import "time"

// Product is a purchasable item that can be assigned to slots.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Slot is a physical dispensing location identified by a 2-character code.
// ProductID is nil for an empty slot.
type Slot struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	ProductID *int64 `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Capacity  int64  `json:"capacity"`
}

// Transaction is an immutable ledger entry recording one completed vend.
// Amount is the payment that was submitted, not the product price.
type Transaction struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	SlotID    int64     `json:"slot_id"`
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
}

// ProductUpdate carries a partial product mutation; nil fields are untouched.
type ProductUpdate struct {
	Name  *string `json:"name,omitempty"`
	Price *int64  `json:"price,omitempty"`
}

// SlotUpdate carries a partial slot mutation; nil fields are untouched.
type SlotUpdate struct {
	ProductID *int64 `json:"product_id,omitempty"`
	Quantity  *int64 `json:"quantity,omitempty"`
}

// MachineInfo bundles the full current machine state for reporting.
type MachineInfo struct {
	Slots        []Slot        `json:"slots"`
	Products     []Product     `json:"products"`
	Transactions []Transaction `json:"transactions"`
}
