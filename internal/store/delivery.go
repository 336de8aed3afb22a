package store

import (
	"context"
	"slices"
	"strings"

	"pharmacie/m/domain"
)

// DefaultDeliveryFee is quoted for regions missing from the fee table.
const DefaultDeliveryFee = 600.0

func (s *Store) DeliveryPrices() []domain.DeliveryPrice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deliveryPrices)
}

// SearchDeliveryPrices returns the rows whose region name contains query,
// case-insensitively.
func (s *Store) SearchDeliveryPrices(query string) []domain.DeliveryPrice {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := []domain.DeliveryPrice{}
	for _, dp := range s.deliveryPrices {
		if strings.Contains(strings.ToLower(dp.Region), query) {
			out = append(out, dp)
		}
	}
	return out
}

// UpdateDeliveryPrice overwrites both fees of region. Rows are never created
// here; the region set is fixed when the table is seeded.
func (s *Store) UpdateDeliveryPrice(ctx context.Context, region string, home, office float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.deliveryIndex(region)
	if i < 0 {
		return false, nil
	}
	next := slices.Clone(s.deliveryPrices)
	next[i].Home = home
	next[i].Office = office
	if err := s.persist(ctx, CollectionDeliveryPrices, next); err != nil {
		return false, err
	}
	s.deliveryPrices = next
	return true, nil
}

// UpdateDeliveryPrices overwrites the fees of every region in rows with a
// single write. When any region is unknown nothing changes and the unknown
// names are returned.
func (s *Store) UpdateDeliveryPrices(ctx context.Context, rows []domain.DeliveryPrice) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.deliveryPrices)
	var missing []string
	for _, row := range rows {
		i := s.deliveryIndex(row.Region)
		if i < 0 {
			missing = append(missing, row.Region)
			continue
		}
		next[i].Home = row.Home
		next[i].Office = row.Office
	}
	if len(missing) > 0 {
		return missing, nil
	}
	if err := s.persist(ctx, CollectionDeliveryPrices, next); err != nil {
		return nil, err
	}
	s.deliveryPrices = next
	return nil, nil
}

// DeliveryPrice returns the fee of method for region, or DefaultDeliveryFee
// when the region or method is unknown.
func (s *Store) DeliveryPrice(region string, method domain.DeliveryMethod) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliveryFee(region, method)
}

func (s *Store) deliveryFee(region string, method domain.DeliveryMethod) float64 {
	i := s.deliveryIndex(region)
	if i < 0 {
		return DefaultDeliveryFee
	}
	fee, ok := s.deliveryPrices[i].Fee(method)
	if !ok {
		return DefaultDeliveryFee
	}
	return fee
}

func (s *Store) deliveryIndex(region string) int {
	return slices.IndexFunc(s.deliveryPrices, func(dp domain.DeliveryPrice) bool { return dp.Region == region })
}
