package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Product mirrors one record of the product document.
type Product struct {
	ID             Identifier     `json:"id"`
	Name           string         `json:"nome"`
	Category       string         `json:"categoria"`
	Price          float64        `json:"preco"`
	Description    string         `json:"descricao"`
	Specifications map[string]any `json:"especificacoes"`
	Available      bool           `json:"disponivel"`
}

// ProductFilters narrows a product search. Nil bounds are open.
type ProductFilters struct {
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// IsZero reports whether no filter is active.
func (f ProductFilters) IsZero() bool {
	return strings.TrimSpace(f.Category) == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Validate rejects inverted or negative price bounds.
func (f ProductFilters) Validate() error {
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return ErrNegativePrice
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return ErrInvalidPriceRange
	}
	return nil
}

// Accepts applies the category (case-insensitive exact) and inclusive price bounds.
func (f ProductFilters) Accepts(p Product) bool {
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		if !strings.EqualFold(strings.TrimSpace(p.Category), category) {
			return false
		}
	}
	return true
}

// IndexText renders the product as the document that gets embedded.
func (p Product) IndexText() string {
	availability := "Indisponível"
	if p.Available {
		availability = "Disponível"
	}

	specs := "{}"
	if len(p.Specifications) > 0 {
		if b, err := json.Marshal(p.Specifications); err == nil {
			specs = string(b)
		}
	}

	lines := []string{
		"ID: " + p.ID.String(),
		"Nome: " + p.Name,
		"Categoria: " + p.Category,
		fmt.Sprintf("Preço: R$%.2f", p.Price),
		"Descrição: " + p.Description,
		"Especificações: " + specs,
		"Disponibilidade: " + availability,
	}
	return strings.Join(lines, "\n")
}
