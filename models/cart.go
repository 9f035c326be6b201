package models

// CartItem pairs a product snapshot with a quantity. A cart holds at most one
// CartItem per product id, and quantities are always >= 1; an update that would
// drop a quantity to zero removes the item instead.
type CartItem struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Subtotal is the line value at the snapshotted unit price.
func (c CartItem) Subtotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}
