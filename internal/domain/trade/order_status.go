package trade

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// OrderStatusPending means the order was created and awaits payment
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusConfirmed means payment succeeded and the order is accepted
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusShipping means the order has been handed to a carrier
	OrderStatusShipping OrderStatus = "SHIPPING"
	// OrderStatusDelivered means the carrier reported delivery
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCompleted means the order is closed successfully
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled means the order was cancelled before shipping
	OrderStatusCancelled OrderStatus = "CANCELLED"
	// OrderStatusReturned means the order was returned after delivery
	OrderStatusReturned OrderStatus = "RETURNED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// allowedTransitions maps each status to the statuses it may move to
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusDelivered},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusReturned},
}

// CanTransitionTo returns true if moving from s to target is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
