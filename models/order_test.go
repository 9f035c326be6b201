package models

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{OrderPending, OrderConfirmed},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderShipped},
		{OrderConfirmed, OrderCancelled},
		{OrderShipped, OrderDelivered},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to OrderStatus
	}{
		{OrderPending, OrderShipped},
		{OrderPending, OrderDelivered},
		{OrderShipped, OrderCancelled},
		{OrderDelivered, OrderCancelled},
		{OrderCancelled, OrderConfirmed},
		{OrderDelivered, OrderPending},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s must be rejected", tc.from, tc.to)
		}
	}
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Product: Product{Price: 35}, Quantity: 3}
	if got := item.Subtotal(); got != 105 {
		t.Errorf("expected 105, got %v", got)
	}
}
