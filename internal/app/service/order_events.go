package service

import "github.com/evoapps/confeitaria-backend/internal/app/model"

// OrderEventPublisher is told about every new order and status change.
// Implementations must not block the request.
type OrderEventPublisher interface {
	OrderCreated(order *model.Order)
	OrderStatusChanged(order *model.Order, from model.OrderStatus)
}

// OrderEventPublishers fans events out to several publishers
type OrderEventPublishers []OrderEventPublisher

func (p OrderEventPublishers) OrderCreated(order *model.Order) {
	for _, pub := range p {
		pub.OrderCreated(order)
	}
}

func (p OrderEventPublishers) OrderStatusChanged(order *model.Order, from model.OrderStatus) {
	for _, pub := range p {
		pub.OrderStatusChanged(order, from)
	}
}
