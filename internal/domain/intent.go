package domain

import "strings"

// Intent is the classified purpose of a user message.
type Intent int

const (
	IntentExchangeDeadline Intent = iota
	IntentOrderStatus
	IntentProduct
	IntentPolicy
	IntentFallback
)

func (i Intent) String() string {
	switch i {
	case IntentExchangeDeadline:
		return "exchange_deadline"
	case IntentOrderStatus:
		return "order_status"
	case IntentProduct:
		return "product"
	case IntentPolicy:
		return "policy"
	default:
		return "fallback"
	}
}

// Intents lists every intent in classification priority order.
func Intents() []Intent {
	return []Intent{IntentExchangeDeadline, IntentOrderStatus, IntentProduct, IntentPolicy, IntentFallback}
}

// ExchangeDeadlineAnswer is returned verbatim for the exchange/return deadline shortcut.
const ExchangeDeadlineAnswer = "Você tem até 7 dias corridos após o recebimento para solicitar a troca ou devolução " +
	"de produtos não perecíveis. O produto deve estar sem sinais de uso e, se possível, na embalagem original. " +
	"Para iniciar a solicitação, entre em contato com o nosso suporte informando o número do pedido."

var (
	// Deadline questions about exchanges or returns. A bare "troca" is a policy question.
	exchangeDeadlineKeywords = []string{
		"prazo de troca", "prazo para troca", "prazo pra troca", "prazo para trocar", "prazo pra trocar",
		"prazo de devolução", "prazo de devolucao", "prazo para devolução", "prazo para devolucao",
		"prazo para devolver", "prazo pra devolver",
	}

	// Generic product terms. Category keywords are added in init, except "casa",
	// which collides with delivery phrasing such as "entrega em casa".
	productKeywords = []string{
		"produto", "produtos", "notebook", "smartphone", "celular", "computador",
		"livro", "tênis", "panelas", "cozinha", "presente",
	}

	policyKeywords = []string{
		"política", "politica", "troca", "devolução", "devolucao", "entrega",
		"pagamento", "garantia", "prazo", "suporte",
	}
)

func init() {
	seen := make(map[string]struct{}, len(productKeywords))
	for _, k := range productKeywords {
		seen[k] = struct{}{}
	}
	for _, c := range categoryTable {
		for _, k := range c.keywords {
			if k == "casa" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			productKeywords = append(productKeywords, k)
		}
	}
}

// ClassifyIntent is total and ordered: the first matching rule wins.
func ClassifyIntent(message string) Intent {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, exchangeDeadlineKeywords):
		return IntentExchangeDeadline
	case strings.Contains(lower, OrderKeyword):
		return IntentOrderStatus
	case containsAny(lower, productKeywords):
		return IntentProduct
	case containsAny(lower, policyKeywords):
		return IntentPolicy
	default:
		return IntentFallback
	}
}
