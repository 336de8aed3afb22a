package store

import (
	"context"
	"slices"

	"pharmacie/m/domain"
)

// Cart returns a copy of the cart entries.
func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cart)
}

// CartTotal is the sum of price × quantity over the cart.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartTotal(s.cart)
}

func cartTotal(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// AddToCart bumps the quantity of an existing entry for product, or appends
// a new entry holding a snapshot of product with quantity 1.
func (s *Store) AddToCart(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.cart)
	if i := cartIndex(next, product.ID); i >= 0 {
		next[i].Quantity++
	} else {
		next = append(next, domain.CartItem{Product: product, Quantity: 1})
	}
	if err := s.persist(ctx, CollectionCart, next); err != nil {
		return err
	}
	s.cart = next
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFromCart(ctx, productID)
}

func (s *Store) removeFromCart(ctx context.Context, productID string) (bool, error) {
	i := cartIndex(s.cart, productID)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.cart), i, i+1)
	if err := s.persist(ctx, CollectionCart, next); err != nil {
		return false, err
	}
	s.cart = next
	return true, nil
}

// UpdateCartQuantity sets the quantity of the entry for productID. A
// quantity of zero or less removes the entry.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeFromCart(ctx, productID)
	}

	i := cartIndex(s.cart, productID)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.cart)
	next[i].Quantity = quantity
	if err := s.persist(ctx, CollectionCart, next); err != nil {
		return false, err
	}
	s.cart = next
	return true, nil
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearCart(ctx)
}

func (s *Store) clearCart(ctx context.Context) error {
	next := []domain.CartItem{}
	if err := s.persist(ctx, CollectionCart, next); err != nil {
		return err
	}
	s.cart = next
	return nil
}

func cartIndex(items []domain.CartItem, productID string) int {
	return slices.IndexFunc(items, func(item domain.CartItem) bool { return item.Product.ID == productID })
}
