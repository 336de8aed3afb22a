package domain

// CartItem holds a snapshot of the product taken when it was first added.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}
