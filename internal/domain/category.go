package domain

import "strings"

// Catalog categories. Values match the categoria field of the product document.
const (
	CategoryElectronics = "eletrônicos"
	CategoryHome        = "casa"
	CategorySports      = "esportes"
	CategoryBooks       = "livros"
)

type categoryKeywords struct {
	category string
	keywords []string
}

// Iteration order is significant: the first matching category wins.
var categoryTable = []categoryKeywords{
	{CategoryElectronics, []string{"eletrônicos", "eletronicos", "notebook", "computador", "celular", "smartphone"}},
	{CategoryHome, []string{"casa", "panelas", "utensílios", "utensilios", "cozinha", "fogão", "fogao", "panela", "presente de cozinha"}},
	{CategorySports, []string{"esportes", "tênis", "tenis", "corrida"}},
	{CategoryBooks, []string{"livros", "livro", "leitura"}},
}

// Categories returns the closed category vocabulary in match order.
func Categories() []string {
	out := make([]string, len(categoryTable))
	for i, c := range categoryTable {
		out[i] = c.category
	}
	return out
}

// ExtractCategory returns the first category whose keyword set matches the message.
func ExtractCategory(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, c := range categoryTable {
		if containsAny(lower, c.keywords) {
			return c.category, true
		}
	}
	return "", false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
