package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// SystemPrompt forbids the model from naming anything outside the supplied context.
const SystemPrompt = `Você é um assistente virtual de e-commerce.
IMPORTANTE: Só pode sugerir, listar ou recomendar produtos que estejam explicitamente no contexto fornecido abaixo.
NUNCA invente produtos, nomes ou categorias. Se não houver produtos relevantes, diga que não encontrou no catálogo.
Responda SOMENTE com base nos produtos listados no contexto.
Se o usuário perguntar sobre características de outros produtos, só responda se essas características estiverem explicitamente listadas no contexto.
`

const productPromptTemplate = `%s

Produtos disponíveis no catálogo:
%s

IMPORTANTE: Responda SOMENTE com base nos produtos listados acima. Não invente produtos ou características.`

const (
	NoProductsContext = "Nenhum produto relevante encontrado."
	NoPolicyContext   = "Nenhuma informação relevante encontrada na política da loja."
)

// BuildProductPrompt lists products as "N. Nome - Descrição".
func BuildProductPrompt(message string, products []domain.Product) string {
	listing := NoProductsContext
	if len(products) > 0 {
		lines := make([]string, 0, len(products))
		for i, p := range products {
			lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, p.Name, p.Description))
		}
		listing = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(productPromptTemplate, message, listing)
}

func BuildPolicyPrompt(message string, passages []string) string {
	listing := NoPolicyContext
	if len(passages) > 0 {
		listing = strings.Join(passages, "\n")
	}
	return message + "\n\nInformações relevantes da política da loja:\n" + listing
}
