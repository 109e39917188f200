package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// OrderItem is a product line inside an order document.
type OrderItem struct {
	Name string `json:"nome"`
}

// Order mirrors one record of the order document.
type Order struct {
	ID                Identifier  `json:"pedido_id"`
	Status            string      `json:"status"`
	Products          []OrderItem `json:"produtos"`
	PurchaseDate      string      `json:"data_compra"`
	EstimatedDelivery string      `json:"previsao_entrega"`
}

// Complete reports whether every field needed for a status summary is present.
func (o *Order) Complete() bool {
	if o == nil {
		return false
	}
	if o.ID.String() == "" || strings.TrimSpace(o.Status) == "" {
		return false
	}
	if o.Products == nil {
		return false
	}
	for _, p := range o.Products {
		if strings.TrimSpace(p.Name) == "" {
			return false
		}
	}
	return strings.TrimSpace(o.PurchaseDate) != "" && strings.TrimSpace(o.EstimatedDelivery) != ""
}

// Summary renders the customer-facing status line. Callers check Complete first.
func (o *Order) Summary() string {
	names := make([]string, 0, len(o.Products))
	for _, p := range o.Products {
		names = append(names, p.Name)
	}
	return fmt.Sprintf(
		"Status do pedido %s: %s. Produtos: %s. Data da compra: %s. Previsão de entrega: %s.",
		o.ID.String(), o.Status, strings.Join(names, ", "), o.PurchaseDate, o.EstimatedDelivery,
	)
}

// OrderKeyword triggers the order-status intent.
const OrderKeyword = "pedido"

var (
	// "pedido 123", "pedido #123", "pedido: 123", "pedido nº 123" or a bare "#123".
	strictOrderIDPattern = regexp.MustCompile(`(?:pedido[\s#:.nº°]*|#\s*)([0-9]+)`)
	anyDigitsPattern     = regexp.MustCompile(`[0-9]+`)
)

// ExtractOrderID pulls an order identifier out of free text. The strict pattern is
// tried first; otherwise the first run of digits anywhere in the message is used.
func ExtractOrderID(message string) (string, bool) {
	lower := strings.ToLower(message)
	if m := strictOrderIDPattern.FindStringSubmatch(lower); m != nil {
		return m[1], true
	}
	if d := anyDigitsPattern.FindString(lower); d != "" {
		return d, true
	}
	return "", false
}
