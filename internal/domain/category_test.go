package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
		wantOK  bool
	}{
		{"Preciso de um NOTEBOOK para trabalhar", CategoryElectronics, true},
		{"Tem smartphone barato?", CategoryElectronics, true},
		{"Procuro um presente de cozinha", CategoryHome, true},
		{"jogo de panelas antiaderente", CategoryHome, true},
		{"Tênis para corrida", CategorySports, true},
		{"Sugestão de leitura", CategoryBooks, true},
		{"Quais produtos vocês têm?", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ExtractCategory(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCategory_FirstMatchWins(t *testing.T) {
	got, ok := ExtractCategory("um livro sobre celular")
	assert.True(t, ok)
	assert.Equal(t, CategoryElectronics, got)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{CategoryElectronics, CategoryHome, CategorySports, CategoryBooks}, Categories())
}
