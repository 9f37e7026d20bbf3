package types

// Address mirrors the Stripe address shape we persist on orders.
type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
}

// IsZero reports whether no address fields were captured.
func (a Address) IsZero() bool {
	return a == Address{}
}
