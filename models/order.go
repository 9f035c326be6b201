package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// nextStatuses encodes the fulfillment lifecycle. Delivered and cancelled are
// terminal; orders are never deleted.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, n := range nextStatuses[s] {
		if n == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// OrderItem snapshots a product at checkout time; later price or name edits on
// the listing do not rewrite history.
type OrderItem struct {
	ProductID   string  `json:"productId" bson:"product_id"`
	ProductName string  `json:"productName" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"` // unit price snapshot
}

type Order struct {
	OrderID         string        `json:"id" bson:"orderid"`
	CustomerID      string        `json:"customerId" bson:"customer_id"`
	OrderDate       time.Time     `json:"orderDate" bson:"order_date"`
	Items           []OrderItem   `json:"items" bson:"items"`
	TotalAmount     float64       `json:"totalAmount" bson:"total_amount"`
	Status          OrderStatus   `json:"status" bson:"status"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" bson:"payment_method"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" bson:"payment_status"`
	DeliveryAddress string        `json:"deliveryAddress" bson:"delivery_address"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}
