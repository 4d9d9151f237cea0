package products

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound and ErrInvalidInput are the only failures a Store reports for
// well-formed calls; the HTTP layer maps them to 404 and 400.
var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid product input")
)

// Product is a stored catalogue entry. ID is assigned by the store and never
// changes.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateInput is the POST body. Both fields are required.
type CreateInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// UpdateInput is the PUT body. A nil field, whether omitted or sent as null,
// leaves the stored value untouched.
type UpdateInput struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

func (in CreateInput) validate() (string, float64, error) {
	if in.Name == nil || in.Price == nil {
		return "", 0, ErrInvalidInput
	}
	price, ok := priceValue(*in.Price)
	if !validName(*in.Name) || !ok {
		return "", 0, ErrInvalidInput
	}
	return *in.Name, price, nil
}

func (in UpdateInput) validate() error {
	if in.Name != nil && !validName(*in.Name) {
		return ErrInvalidInput
	}
	if in.Price != nil {
		if _, ok := priceValue(*in.Price); !ok {
			return ErrInvalidInput
		}
	}
	return nil
}

func (in UpdateInput) apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price, _ = priceValue(*in.Price)
	}
}

func validName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// priceValue converts a decoded price to the stored float64. The check runs on
// the converted value: 1e400 overflows to +Inf and 1e-400 underflows to 0,
// and neither can be stored or encoded as a positive JSON number.
func priceValue(price decimal.Decimal) (float64, bool) {
	f := price.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	return f, true
}

// SeedProducts is the catalogue every fresh process starts with.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Ноутбук", Price: 75000},
		{ID: 2, Name: "Смартфон", Price: 45000},
		{ID: 3, Name: "Наушники", Price: 5000},
	}
}
