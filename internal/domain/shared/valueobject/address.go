package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is an immutable value object for a street address.
// Line1, city and country are required; everything else is optional.
type Address struct {
	line1      string
	line2      string
	city       string
	state      string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the secondary address line (unit, suite, floor)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithState sets the state, province or region
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// NewAddress creates a new Address with the required fields
func NewAddress(line1, city, country string, opts ...AddressOption) (Address, error) {
	addr := Address{
		line1:   strings.TrimSpace(line1),
		city:    strings.TrimSpace(city),
		country: strings.TrimSpace(country),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if addr.line1 == "" {
		return Address{}, fmt.Errorf("address line cannot be empty")
	}
	if len(addr.line1) > 200 || len(addr.line2) > 200 {
		return Address{}, fmt.Errorf("address line cannot exceed 200 characters")
	}
	if addr.city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(addr.city) > 100 || len(addr.state) > 100 {
		return Address{}, fmt.Errorf("city and state cannot exceed 100 characters")
	}
	if addr.country == "" {
		return Address{}, fmt.Errorf("country cannot be empty")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}
	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(line1, city, country string, opts ...AddressOption) Address {
	addr, err := NewAddress(line1, city, country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) Line1() string      { return a.line1 }
func (a Address) Line2() string      { return a.line2 }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }
func (a Address) Country() string    { return a.country }

// IsEmpty returns true if no part of the address is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FullAddress returns a single-line address suitable for display and geocoding,
// e.g. "12 Harbour St, Unit 4, Sydney, NSW 2000, Australia"
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}
	parts := []string{a.line1}
	if a.line2 != "" {
		parts = append(parts, a.line2)
	}
	parts = append(parts, a.city)
	region := strings.TrimSpace(a.state + " " + a.postalCode)
	if region != "" {
		parts = append(parts, region)
	}
	parts = append(parts, a.country)
	return strings.Join(parts, ", ")
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.FullAddress()
}

// Equals compares two addresses case-insensitively
func (a Address) Equals(other Address) bool {
	return strings.EqualFold(a.line1, other.line1) &&
		strings.EqualFold(a.line2, other.line2) &&
		strings.EqualFold(a.city, other.city) &&
		strings.EqualFold(a.state, other.state) &&
		strings.EqualFold(a.postalCode, other.postalCode) &&
		strings.EqualFold(a.country, other.country)
}

// AddressDTO is the wire shape of Address
type AddressDTO struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// ToDTO converts the address into its wire shape
func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	}
}

// AddressFromDTO builds a validated Address from its wire shape
func AddressFromDTO(d AddressDTO) (Address, error) {
	return NewAddress(d.Line1, d.City, d.Country,
		WithLine2(d.Line2), WithState(d.State), WithPostalCode(d.PostalCode))
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var d AddressDTO
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	if d == (AddressDTO{}) {
		*a = Address{}
		return nil
	}
	addr, err := AddressFromDTO(d)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
