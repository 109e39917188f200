package daemon

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDocuments(t *testing.T) {
	cfg := offlineConfig("data")
	cfg.PolicyFiles = []string{"politicas.md", " ", "garantia.md"}

	assert.Equal(t, []string{"pedidos.json", "produtos.json", "politicas.md", "garantia.md"}, catalogDocuments(cfg))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("produtos.json"))
	assert.Equal(t, "text/markdown; charset=utf-8", contentType("politicas.MD"))
	assert.Equal(t, "text/plain; charset=utf-8", contentType("notas.txt"))
}

func TestPushCatalogCmd_RequiresS3(t *testing.T) {
	t.Setenv("VITRINE_S3_ENDPOINT", "")
	t.Setenv("VITRINE_LOG_LEVEL", "error")

	cmd := PushCatalogCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3 is not configured")
}
