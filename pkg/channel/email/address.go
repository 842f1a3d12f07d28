package email

import "net/mail"

// Address is an email contact.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// NewAddress creates an address without a display name.
func NewAddress(email string) Address {
	return Address{Email: email}
}

// ParseAddress parses an RFC 5322 address such as "Ada <ada@example.com>".
func ParseAddress(s string) (Address, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, err
	}
	return Address{Name: addr.Name, Email: addr.Address}, nil
}

// String formats the address for a mail header.
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}
