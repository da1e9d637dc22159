// internal/client/cart/types.go
package cart

import (
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
)

// Policy decides which cart items become part of a completed order
type Policy string

const (
	// PolicyFirstItem snapshots only the first cart item
	PolicyFirstItem Policy = "first_item"
	// PolicyWholeCart snapshots every cart item
	PolicyWholeCart Policy = "whole_cart"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// StatusCompleted is the only order status
const StatusCompleted OrderStatus = "Completed"

// Item is one cart entry. Product is a value snapshot taken when added.
type Item struct {
	ID       string      `json:"id"`
	Product  api.Product `json:"product"`
	Color    string      `json:"color"`
	Size     string      `json:"size"`
	Quantity int         `json:"quantity"`
	AddedAt  time.Time   `json:"addedAt"`
}

func (i Item) matches(productID api.ID, color, size string) bool {
	return i.Product.ID == productID && i.Color == color && i.Size == size
}

// OrderLine is the immutable snapshot of one purchased item
type OrderLine struct {
	ProductID api.ID `json:"productId"`
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Image     string `json:"image,omitempty"`
	Price     int64  `json:"price"`
}

// Order is a completed purchase. Orders are never modified once recorded.
type Order struct {
	ID     string      `json:"id"`
	Lines  []OrderLine `json:"lines"`
	Total  int64       `json:"total"`
	Date   time.Time   `json:"date"`
	Status OrderStatus `json:"status"`
}

// Totals is the checkout summary. Shipping is always zero.
type Totals struct {
	ItemCount int   `json:"itemCount"`
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Total     int64 `json:"total"`
}

func lineFor(item Item) OrderLine {
	return OrderLine{
		ProductID: item.Product.ID,
		Name:      item.Product.Name,
		Brand:     item.Product.Brand,
		Color:     item.Color,
		Size:      item.Size,
		Image:     item.Product.Image,
		Price:     item.Product.Price,
	}
}

func copyOrder(o Order) Order {
	o.Lines = append([]OrderLine(nil), o.Lines...)
	return o
}
