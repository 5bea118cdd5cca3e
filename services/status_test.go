package services

import "testing"

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusCreated, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusDelivered, true},
		{OrderStatusCreated, OrderStatusDelivered, false},
		{OrderStatusPreparing, OrderStatusCreated, false},
		{OrderStatusDelivered, OrderStatusCreated, false},
		{OrderStatusDelivered, OrderStatusPreparing, false},
		{OrderStatusCreated, OrderStatusCreated, false},
		{"", OrderStatusPreparing, false},
		{OrderStatusCreated, "", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []string{OrderStatusCreated, OrderStatusPreparing, OrderStatusDelivered} {
		if !KnownStatus(s) {
			t.Errorf("KnownStatus(%q) = false, want true", s)
		}
	}
	if KnownStatus("CANCELLED") {
		t.Error("KnownStatus(\"CANCELLED\") = true, want false")
	}
}
