package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkasan/config"
	"ringkasan/pkg/metrics"
)

func TestFormatsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"formats"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.Equal(t, 0, Execute())

	text := out.String()
	assert.Contains(t, text, "FORMAT")
	for _, ext := range []string{".txt", ".md", ".pdf", ".docx"} {
		assert.Contains(t, text, ext)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(text), "\n"), 5)
}

func TestSummaryChainNeedsAKey(t *testing.T) {
	assert.Nil(t, summaryChain(&config.Config{}, nil))

	m, err := metrics.New()
	require.NoError(t, err)
	chain := summaryChain(&config.Config{AnthropicAPIKey: "a", FallbackAPIKey: "b"}, m)
	require.NotNil(t, chain)
	require.Len(t, chain.Providers, 2)
	assert.Equal(t, "anthropic", chain.Providers[0].Name())
	assert.Equal(t, "openai", chain.Providers[1].Name())
}
