package types

import "strings"

// Client is a workshop customer.
type Client struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EntityID returns the client id.
func (c Client) EntityID() int { return c.ID }

// Clone returns an independent copy of the client.
func (c Client) Clone() Client { return c }

// Normalize trims surrounding whitespace from every text field.
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
}

// Validate checks the fields that do not depend on other records.
func (c Client) Validate() error {
	if c.Name == "" {
		return Invalid("name", ErrNameRequired)
	}
	return nil
}
