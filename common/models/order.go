// Package models defines the canonical order event shared by every
// orderflow service.
package models

import "fmt"

// OrderEvent is the canonical order as submitted by producers. Field names
// follow the upstream wire format, including the long-standing
// "purchaise_details" key which producers still emit.
type OrderEvent struct {
	CustomerID      string           `json:"customer_id"`
	OrderID         string           `json:"order_id"`
	OrderDate       string           `json:"order_date"`
	Status          string           `json:"status"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	PurchaseDetails *PurchaseDetails `json:"purchaise_details,omitempty"`
	ProductDetails  []ProductItem    `json:"product_details,omitempty"`
}

// Validate checks the fields every downstream consumer depends on.
// Projection-specific requirements are enforced by the projections.
func (e *OrderEvent) Validate() error {
	if e.OrderID == "" {
		return fmt.Errorf("order event missing order_id")
	}
	if e.OrderDate == "" {
		return fmt.Errorf("order event missing order_date")
	}
	return nil
}

// ShippingAddress is the order's destination.
type ShippingAddress struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Zip     string `json:"zip"`
}

// PurchaseDetails carries payment information. Amount keeps the producer's
// exact decimal text.
type PurchaseDetails struct {
	PaymentType string        `json:"payment_type"`
	Amount      DecimalString `json:"amount"`
	Currency    string        `json:"currency"`
	Instalments int           `json:"instalments"`
}

// ProductItem is one purchased product line.
type ProductItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Details   ItemDetails `json:"item_details"`
}

// ItemDetails holds per-item attributes.
type ItemDetails struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}
