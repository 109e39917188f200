package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// Customer-facing order lookup replies.
const (
	OrderGuidanceMessage   = "Para consultar o status do seu pedido, por favor informe o número do pedido. Exemplo: 'Qual o status do pedido #12345?'"
	OrderNotFoundMessage   = "Desculpe, não encontrei esse pedido em nossa base. Verifique o número e tente novamente."
	orderIncompleteMessage = "Encontrei o pedido %s, mas algumas informações dele estão incompletas. Por favor, entre em contato com o nosso suporte."
)

// OrderFinder resolves an order by identifier.
type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

// OrderLookup turns a free-text order question into a reply.
type OrderLookup struct {
	orders OrderFinder
}

func NewOrderLookup(orders OrderFinder) *OrderLookup {
	return &OrderLookup{orders: orders}
}

// Lookup never fails for a missing or unknown order: those become reply messages.
func (l *OrderLookup) Lookup(ctx context.Context, message string) (string, error) {
	id, ok := domain.ExtractOrderID(message)
	if !ok {
		return OrderGuidanceMessage, nil
	}

	order, err := l.orders.FindByID(ctx, id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return OrderNotFoundMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up order %s: %w", id, err)
	}

	if !order.Complete() {
		return OrderIncompleteMessage(order.ID.String()), nil
	}
	return order.Summary(), nil
}

func OrderIncompleteMessage(id string) string {
	return fmt.Sprintf(orderIncompleteMessage, id)
}
