package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/mykafka"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

type CartEvent struct {
	Type      string    `json:"type"`
	Login     string    `json:"login"`
	DishName  string    `json:"dish_name,omitempty"`
	Qty       int       `json:"qty,omitempty"`
	Items     int       `json:"items,omitempty"`
	Timestamp time.Time `json:"ts"`
}

type Summary struct {
	TotalItems int
	TotalPrice decimal.Decimal
}

func imageOrPlaceholder(img *string) *string {
	if img == nil || strings.TrimSpace(*img) == "" {
		p := models.PlaceholderImage
		return &p
	}
	return img
}

// newCartItem applies the line defaults: qty 1, price 0, placeholder image.
func newCartItem(login string, req transport.CartItemRequest) (models.CartItem, error) {
	if strings.TrimSpace(req.DishName) == "" {
		return models.CartItem{}, fmt.Errorf("dish_name is required: %w", ErrValidation)
	}
	item := models.CartItem{
		UserLogin: login,
		DishName:  req.DishName,
		Qty:       1,
		ImageURL:  imageOrPlaceholder(req.Image),
	}
	if req.Qty != nil {
		if *req.Qty <= 0 {
			return models.CartItem{}, fmt.Errorf("qty must be positive: %w", ErrValidation)
		}
		item.Qty = *req.Qty
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	return item, nil
}

func (s *CartService) publish(ctx context.Context, ev CartEvent) {
	if s.Events == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	if err := s.Events.PublishEvent(ctx, mykafka.TopicCartEvents, ev.Login, ev); err != nil {
		logging.FromContext(ctx).Warn("cart_event_publish_failed", "type", ev.Type, "error", err)
	}
}

// ownerErr reports a session whose login no longer names a user, e.g. an
// access token issued before a rename.
func ownerErr(login string, err error) error {
	if errors.Is(err, repo.ErrUnknownUser) {
		return fmt.Errorf("user %q no longer exists: %w", login, ErrInvalidCredentials)
	}
	return err
}

func (s *CartService) Fetch(ctx context.Context, login string) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, login)
}

// Replace makes the cart exactly reqs. Lines sharing a dish name are merged
// by summing qty, keeping the first line's price and image.
func (s *CartService) Replace(ctx context.Context, login string, reqs []transport.CartItemRequest) error {
	if reqs == nil {
		return fmt.Errorf("cart payload must be a list: %w", ErrValidation)
	}

	items := make([]models.CartItem, 0, len(reqs))
	pos := make(map[string]int, len(reqs))
	for i, req := range reqs {
		item, err := newCartItem(login, req)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if j, ok := pos[item.DishName]; ok {
			items[j].Qty += item.Qty
			continue
		}
		pos[item.DishName] = len(items)
		items = append(items, item)
	}

	if err := s.Repo.ReplaceCart(ctx, login, items); err != nil {
		return ownerErr(login, err)
	}
	s.publish(ctx, CartEvent{Type: "cart_replaced", Login: login, Items: len(items)})
	return nil
}

func (s *CartService) Add(ctx context.Context, login string, req transport.CartItemRequest) (*models.CartItem, error) {
	item, err := newCartItem(login, req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, ownerErr(login, err)
	}
	s.publish(ctx, CartEvent{Type: "cart_item_added", Login: login, DishName: item.DishName, Qty: item.Qty})
	return &item, nil
}

func (s *CartService) Remove(ctx context.Context, login, dishName string) error {
	if strings.TrimSpace(dishName) == "" {
		return fmt.Errorf("dish_name is required: %w", ErrValidation)
	}
	if err := s.Repo.RemoveFromCart(ctx, login, dishName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("item %q not in cart: %w", dishName, ErrNotFound)
		}
		return err
	}
	s.publish(ctx, CartEvent{Type: "cart_item_removed", Login: login, DishName: dishName})
	return nil
}

func (s *CartService) Summary(ctx context.Context, login string) (Summary, error) {
	items, err := s.Repo.GetCart(ctx, login)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{TotalPrice: decimal.Zero}
	for _, it := range items {
		sum.TotalItems += it.Qty
		sum.TotalPrice = sum.TotalPrice.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return sum, nil
}
