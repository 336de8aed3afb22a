package domain

// DeliveryPrice is the fee row of one region, keyed by region name.
type DeliveryPrice struct {
	Region string  `json:"region"`
	Home   float64 `json:"home"`
	Office float64 `json:"office"`
}

// Fee returns the fee for method; ok is false for an unknown method.
func (d DeliveryPrice) Fee(method DeliveryMethod) (fee float64, ok bool) {
	switch method {
	case DeliveryHome:
		return d.Home, true
	case DeliveryOffice:
		return d.Office, true
	default:
		return 0, false
	}
}

type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
