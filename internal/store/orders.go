package store

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
)

// ErrEmptyCart is returned by Checkout when there is nothing to order.
var ErrEmptyCart = errors.New("cart is empty")

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

func (s *Store) Order(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.orderIndex(id)
	if i < 0 {
		return domain.Order{}, false
	}
	return cloneOrder(s.orders[i]), true
}

// OrdersByStatus returns the orders in status, or all orders when status is
// empty.
func (s *Store) OrdersByStatus(status domain.OrderStatus) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Order{}
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

// AddOrder records a pending order exactly as supplied and clears the cart.
// No stock or payment checks are made: orders are paid on delivery.
func (s *Store) AddOrder(ctx context.Context, in domain.OrderInput) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addOrder(ctx, in)
}

// Checkout turns the current cart into a pending order. Items, subtotal,
// delivery fee and total are taken from the store itself, and the cart is
// cleared, all under one lock. Items and totals in in are ignored.
func (s *Store) Checkout(ctx context.Context, in domain.OrderInput) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	in.Items = slices.Clone(s.cart)
	in.Subtotal = cartTotal(in.Items)
	in.DeliveryFee = s.deliveryFee(in.Region, in.DeliveryMethod)
	in.Total = in.Subtotal + in.DeliveryFee
	return s.addOrder(ctx, in)
}

func (s *Store) addOrder(ctx context.Context, in domain.OrderInput) (domain.Order, error) {
	order := domain.Order{
		ID:             s.newID(),
		FullName:       in.FullName,
		Phone:          in.Phone,
		Region:         in.Region,
		SubRegion:      in.SubRegion,
		DeliveryMethod: in.DeliveryMethod,
		Items:          append([]domain.CartItem{}, in.Items...),
		Subtotal:       in.Subtotal,
		DeliveryFee:    in.DeliveryFee,
		Total:          in.Total,
		Status:         domain.StatusPending,
		CreatedAt:      s.now(),
	}
	next := append(slices.Clone(s.orders), order)
	if err := s.persist(ctx, CollectionOrders, next); err != nil {
		return domain.Order{}, err
	}
	s.orders = next

	log.Info().
		Str("order_id", order.ID).
		Str("region", order.Region).
		Int("items", len(order.Items)).
		Float64("total", order.Total).
		Msg("store: order placed")

	// The order is recorded even if the cart cannot be cleared.
	if err := s.clearCart(ctx); err != nil {
		return cloneOrder(order), err
	}
	return cloneOrder(order), nil
}

// UpdateOrderStatus sets the status of the order with id. The value is
// stored as given.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.orders)
	previous := next[i].Status
	next[i].Status = status
	if err := s.persist(ctx, CollectionOrders, next); err != nil {
		return false, err
	}
	s.orders = next

	log.Info().Str("order_id", id).Stringer("old_status", previous).Stringer("new_status", status).Msg("store: order status updated")
	return true, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.orders), i, i+1)
	if err := s.persist(ctx, CollectionOrders, next); err != nil {
		return false, err
	}
	s.orders = next
	return true, nil
}

func (s *Store) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o domain.Order) bool { return o.ID == id })
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func cloneOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = cloneOrder(o)
	}
	return out
}
