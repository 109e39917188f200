package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
		wantOK  bool
	}{
		{"hash marker", "Qual o status do pedido #12345?", "12345", true},
		{"colon", "pedido: 987", "987", true},
		{"plain space", "PEDIDO 42 chegou?", "42", true},
		{"numero sign", "pedido nº 555", "555", true},
		{"glued", "pedido#777", "777", true},
		{"bare hash", "meu #00123 não chegou", "00123", true},
		{"strict beats earlier digits", "Comprei 2 itens no pedido 321", "321", true},
		{"fallback first digits", "pedido feito dia 15, número 4455", "15", true},
		{"no digits", "Onde está meu pedido?", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractOrderID(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrder_UnmarshalNumericAndStringIDs(t *testing.T) {
	raw := `[
		{"pedido_id": 12345, "status": "Entregue", "produtos": [{"nome": "Livro A"}], "data_compra": "2024-01-01", "previsao_entrega": "2024-01-05"},
		{"pedido_id": " 00077 ", "status": "Em trânsito", "produtos": [], "data_compra": "2024-02-01", "previsao_entrega": "2024-02-10"}
	]`

	var orders []Order
	require.NoError(t, json.Unmarshal([]byte(raw), &orders))
	require.Len(t, orders, 2)

	assert.True(t, orders[0].ID.Matches("12345"))
	assert.True(t, orders[1].ID.Matches("00077"))
	assert.False(t, orders[1].ID.Matches("77"))
}

func TestOrder_Complete(t *testing.T) {
	full := &Order{
		ID:                "12345",
		Status:            "Em trânsito",
		Products:          []OrderItem{{Name: "Notebook X"}},
		PurchaseDate:      "2024-01-01",
		EstimatedDelivery: "2024-01-10",
	}
	assert.True(t, full.Complete())

	missingStatus := *full
	missingStatus.Status = ""
	assert.False(t, missingStatus.Complete())

	missingProducts := *full
	missingProducts.Products = nil
	assert.False(t, missingProducts.Complete())

	unnamedProduct := *full
	unnamedProduct.Products = []OrderItem{{Name: ""}}
	assert.False(t, unnamedProduct.Complete())

	missingDelivery := *full
	missingDelivery.EstimatedDelivery = " "
	assert.False(t, missingDelivery.Complete())

	var nilOrder *Order
	assert.False(t, nilOrder.Complete())
}

func TestOrder_Summary(t *testing.T) {
	o := &Order{
		ID:                "12345",
		Status:            "Em trânsito",
		Products:          []OrderItem{{Name: "Notebook X"}, {Name: "Mouse"}},
		PurchaseDate:      "2024-01-01",
		EstimatedDelivery: "2024-01-10",
	}

	assert.Equal(t,
		"Status do pedido 12345: Em trânsito. Produtos: Notebook X, Mouse. Data da compra: 2024-01-01. Previsão de entrega: 2024-01-10.",
		o.Summary(),
	)
}
