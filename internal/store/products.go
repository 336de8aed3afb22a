package store

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
)

// Products returns a copy of the catalog in insertion order.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(id)
	if i < 0 {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// FilterProducts keeps products of category (all when empty) whose name or
// description contains query, case-insensitively.
func (s *Store) FilterProducts(category domain.Category, query string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []domain.Product{}
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SearchProductsByName returns the products whose name contains query,
// case-insensitively. The back office searches names only.
func (s *Store) SearchProductsByName(query string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []domain.Product{}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out
}

// AddProduct assigns a fresh id and timestamp and appends the product.
func (s *Store) AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := domain.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		CreatedAt:   s.now(),
	}
	next := append(slices.Clone(s.products), product)
	if err := s.persist(ctx, CollectionProducts, next); err != nil {
		return domain.Product{}, err
	}
	s.products = next

	log.Debug().Str("product_id", product.ID).Str("name", product.Name).Msg("store: product added")
	return product, nil
}

// UpdateProduct merges patch into the product with id.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.products)
	next[i].Apply(patch)
	if err := s.persist(ctx, CollectionProducts, next); err != nil {
		return false, err
	}
	s.products = next
	return true, nil
}

// DeleteProduct removes the product with id. Orders keep their own item
// snapshots and are not touched.
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.products), i, i+1)
	if err := s.persist(ctx, CollectionProducts, next); err != nil {
		return false, err
	}
	s.products = next
	return true, nil
}

func (s *Store) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
}
