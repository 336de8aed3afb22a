package seed

import "pharmacie/m/domain"

// Default fees by distance tier. Regions outside every tier use the
// standard pair.
var (
	centralRegions = map[string]bool{"16": true, "09": true, "35": true, "42": true}
	nearbyRegions  = map[string]bool{"15": true, "06": true, "19": true, "25": true, "31": true, "23": true}
	farRegions     = map[string]bool{"01": true, "11": true, "33": true, "37": true, "52": true, "53": true, "54": true, "56": true, "57": true, "58": true}
)

// DeliveryPrices builds one fee row per region, keyed by region name.
func DeliveryPrices(regions []domain.Region) []domain.DeliveryPrice {
	prices := make([]domain.DeliveryPrice, 0, len(regions))
	for _, region := range regions {
		home, office := 600.0, 400.0
		switch {
		case centralRegions[region.Code]:
			home, office = 400, 300
		case nearbyRegions[region.Code]:
			home, office = 500, 350
		case farRegions[region.Code]:
			home, office = 1200, 800
		}
		prices = append(prices, domain.DeliveryPrice{Region: region.Name, Home: home, Office: office})
	}
	return prices
}
