package models

import "time"

// OrderItem is a snapshot taken at order creation; it never changes after,
// even if the product is edited or deleted.
type OrderItem struct {
	ProductID  string            `json:"productId" bson:"productId"`
	Name       string            `json:"name" bson:"name"`
	Price      float64           `json:"price" bson:"price"`
	Quantity   int               `json:"quantity" bson:"quantity"`
	Subtotal   float64           `json:"subtotal" bson:"subtotal"`
	Image      string            `json:"image,omitempty" bson:"image,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

type Actor struct {
	UserID   string `json:"userId" bson:"userId"`
	Username string `json:"username,omitempty" bson:"username,omitempty"`
}

type StatusChange struct {
	Status    string    `json:"status" bson:"status"`
	ChangedBy Actor     `json:"changedBy" bson:"changedBy"`
	Date      time.Time `json:"date" bson:"date"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

type Order struct {
	OrderID         string               `json:"orderId" bson:"orderId"`
	OrderNumber     string               `json:"orderNumber" bson:"orderNumber"`
	UserID          string               `json:"userId" bson:"userId"`
	Items           []OrderItem          `json:"items" bson:"items"`
	ShippingAddress string               `json:"shippingAddress" bson:"shippingAddress"`
	TotalAmount     float64              `json:"totalAmount" bson:"totalAmount"`
	Status          string               `json:"status" bson:"status"`
	StatusDates     map[string]time.Time `json:"statusDates" bson:"statusDates"`
	StatusHistory   []StatusChange       `json:"statusHistory" bson:"statusHistory"`
	PurchaseDate    time.Time            `json:"purchaseDate" bson:"purchaseDate"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}
