package orders

import "github.com/emekaorji/cartify-backend/pkg/enums"

// Legal order status transitions. Everything else requires the admin force
// flag or is rejected outright.
var orderStatusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:  {},
	enums.OrderStatusCancelled:  {},
}

// Delivery progresses forward through the fulfilment chain only.
var deliveryStatusTransitions = map[enums.DeliveryStatus][]enums.DeliveryStatus{
	enums.DeliveryStatusPending:        {enums.DeliveryStatusPacked},
	enums.DeliveryStatusPacked:         {enums.DeliveryStatusInTransit},
	enums.DeliveryStatusInTransit:      {enums.DeliveryStatusOutForDelivery},
	enums.DeliveryStatusOutForDelivery: {enums.DeliveryStatusDelivered},
	enums.DeliveryStatusDelivered:      {},
}

func canTransitionOrderStatus(from, to enums.OrderStatus) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func canTransitionDeliveryStatus(from, to enums.DeliveryStatus) bool {
	for _, next := range deliveryStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
