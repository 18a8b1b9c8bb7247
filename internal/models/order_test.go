package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusCancelled, true},

		// Backward and skipping moves are rejected.
		{OrderStatusPreparing, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusPending, OrderStatusCompleted, false},

		// Terminal states stay terminal.
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusPending, false},

		// Self-transitions are not listed.
		{OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%s) = false, want true", s)
		}
	}
	for _, s := range []string{"", "pending", "SHIPPED"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true, want false", s)
		}
	}
}
