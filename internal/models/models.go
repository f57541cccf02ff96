package models

import (
	"errors"
	"strings"
)

const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

// User is the cached profile shape returned by the backend. The password
// field is only populated on registration requests and never stored.
type User struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	FarmName    string `json:"farmName,omitempty"`
	Country     string `json:"country,omitempty"`
	State       string `json:"state,omitempty"`
	Address     string `json:"address,omitempty"`
	PhotoID     string `json:"photoID,omitempty"`
}

type Product struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
	FarmerID    string  `json:"farmerId,omitempty"`
	Farmer      *User   `json:"farmer,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

type Comment struct {
	ID        string `json:"_id,omitempty"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

var (
	ErrNameRequired        = errors.New("product name is required")
	ErrCategoryRequired    = errors.New("product category is required")
	ErrDescriptionRequired = errors.New("product description is required")
	ErrPriceNotPositive    = errors.New("price must be positive")
	ErrQuantityNotPositive = errors.New("quantity must be positive")
)

// Validate checks the fields the server will reject anyway. The server
// stays authoritative; this only saves a round trip.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrCategoryRequired
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrDescriptionRequired
	}
	if p.Price <= 0 {
		return ErrPriceNotPositive
	}
	if p.Quantity <= 0 {
		return ErrQuantityNotPositive
	}
	return nil
}

// FilterProducts returns the products whose name, category or description
// contains the query, case-insensitively. An empty query matches everything.
func FilterProducts(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}
