package models

import "time"

// CartItem is the persisted cart line. Name, price and image are NOT stored
// here; they are resolved against the catalog when the cart is read, so the
// cart always reflects current pricing. The line identity is the compound
// (productId, attributes) pair.
type CartItem struct {
	ProductID  string            `json:"productId" bson:"productId"`
	Quantity   int               `json:"quantity" bson:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// GuestCartItem is the client-side snapshot shape sent on merge. A guest
// cart has no server round-trip, so it carries name/price/image captured at
// add time.
type GuestCartItem struct {
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Image      string            `json:"image"`
	Attributes map[string]string `json:"attributes"`
}

type Cart struct {
	CartID    string     `json:"cartId" bson:"cartId"`
	UserID    string     `json:"userId" bson:"userId"`
	Items     []CartItem `json:"items" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CartViewItem is a cart line joined with live catalog data.
type CartViewItem struct {
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Image      string            `json:"image"`
	Subtotal   float64           `json:"subtotal"`
}

type CartView struct {
	Items       []CartViewItem `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
}
