package service

import (
	"context"

	"restaurant-cart/badge"
	models "restaurant-cart/model"
	"restaurant-cart/notify"
	"restaurant-cart/refresh"
)

type ServiceInterface interface {
	AddToCart(ctx context.Context, sessionID, itemID string, qty int) error
	RemoveFromCart(ctx context.Context, sessionID, itemID string) error
	UpdateQuantity(ctx context.Context, sessionID, itemID string, qty int) error
	ClearCart(ctx context.Context, sessionID string) error
	GetCart(ctx context.Context, sessionID string) (models.Cart, error)

	Badge(ctx context.Context, sessionID string) (badge.Badge, error)
	Notifications(ctx context.Context, sessionID string) ([]notify.Notification, error)
	ReportValidation(ctx context.Context, sessionID string, err error) error
	Watch(ctx context.Context, sessionID, path string) (*refresh.Group, error)
	Unwatch(ctx context.Context, sessionID string) error
}
