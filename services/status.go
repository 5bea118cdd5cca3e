package services

// Order lifecycle. Staff advance an order one step at a time; there is no
// cancellation or rollback path.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusDelivered = "DELIVERED"
)

// ValidStatusTransition reports whether an order may move from one status
// to another. Only single forward steps are allowed; DELIVERED is terminal.
func ValidStatusTransition(from, to string) bool {
	switch {
	case from == OrderStatusCreated && to == OrderStatusPreparing:
		return true
	case from == OrderStatusPreparing && to == OrderStatusDelivered:
		return true
	}
	return false
}

// KnownStatus reports whether s is one of the order statuses.
func KnownStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusPreparing, OrderStatusDelivered:
		return true
	}
	return false
}
