package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *cobra.Command {
	root := &cobra.Command{
		Use:         "vitrined",
		Short:       "daemon",
		Annotations: map[string]string{EnvAnnotation: "VITRINE_PORT, VITRINE_DATA_DIR"},
	}
	AddHelpJSONFlag(root)
	root.PersistentFlags().Bool("output", false, "Print raw JSON")

	serve := &cobra.Command{Use: "serve", Aliases: []string{"run"}, Short: "Start the server", Run: func(*cobra.Command, []string) {}}
	serve.Flags().IntP("port", "p", 8000, "Port")
	serve.Flags().String("data-dir", "", "Data directory")
	_ = serve.MarkFlagRequired("data-dir")

	hidden := &cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}}

	root.AddCommand(serve, hidden)
	return root
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(newTestTree())

	assert.Equal(t, "vitrined", schema.Name)
	assert.Equal(t, []string{"VITRINE_DATA_DIR", "VITRINE_PORT"}, schema.Env)
	require.Len(t, schema.Subcommands, 1)

	serve := schema.Subcommands[0]
	assert.Equal(t, "serve", serve.Name)
	assert.Equal(t, []string{"run"}, serve.Aliases)

	flags := make(map[string]FlagSchema)
	for _, f := range serve.Flags {
		flags[f.Name] = f
	}
	assert.NotContains(t, flags, "help-json")
	assert.Equal(t, FlagSchema{Name: "port", Shorthand: "p", Type: "int", Default: "8000", Description: "Port"}, flags["port"])
	assert.True(t, flags["data-dir"].Required)
	assert.True(t, flags["output"].Inherited)
}

func TestWriteSchema(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteSchema(&buf, newTestTree()))

	var decoded CommandSchema
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "vitrined", decoded.Name)
}

func TestHelpJSONTarget(t *testing.T) {
	root := newTestTree()

	tests := []struct {
		name   string
		args   []string
		want   string
		wantOK bool
	}{
		{name: "absent", args: []string{"serve"}, wantOK: false},
		{name: "root", args: []string{"--help-json"}, want: "vitrined", wantOK: true},
		{name: "subcommand", args: []string{"serve", "--help-json"}, want: "serve", wantOK: true},
		{name: "alias after flag", args: []string{"--output", "run", "--help-json"}, want: "serve", wantOK: true},
		{name: "unknown falls back to parent", args: []string{"nope", "--help-json"}, want: "vitrined", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := helpJSONTarget(root, tt.args)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, cmd.Name())
			}
		})
	}
}
