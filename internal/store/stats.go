package store

import "pharmacie/m/domain"

const recentOrdersLimit = 5

type Stats struct {
	Products      int            `json:"products"`
	Orders        int            `json:"orders"`
	PendingOrders int            `json:"pending_orders"`
	Prescriptions int            `json:"prescriptions"`
	RecentOrders  []domain.Order `json:"recent_orders"`
}

// Stats summarizes the back-office dashboard. RecentOrders lists the latest
// orders newest first.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Products:      len(s.products),
		Orders:        len(s.orders),
		Prescriptions: len(s.prescriptions),
		RecentOrders:  []domain.Order{},
	}
	for _, o := range s.orders {
		if o.Status == domain.StatusPending {
			stats.PendingOrders++
		}
	}
	for i := len(s.orders) - 1; i >= 0 && len(stats.RecentOrders) < recentOrdersLimit; i-- {
		stats.RecentOrders = append(stats.RecentOrders, cloneOrder(s.orders[i]))
	}
	return stats
}
