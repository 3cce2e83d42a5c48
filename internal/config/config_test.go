package config

import (
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDefault(t *testing.T) {
	opts := Default()
	assert.Equal(t, "sha256", opts.Output.HashFunction)
	assert.Equal(t, "hex", opts.Output.HashDigest)
	assert.Equal(t, 20, opts.Output.HashDigestLength)
	assert.Equal(t, 100, opts.Parallelism)
	assert.False(t, opts.Bail)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
parallelism = 16
bail        = true

output {
  hash_function      = "md5"
  hash_digest_length  = 8
}
`
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL([]byte(src), "test.hcl")
	require.False(t, diags.HasErrors())

	opts, err := Decode(f.Body)
	require.NoError(t, err)
	assert.Equal(t, 16, opts.Parallelism)
	assert.True(t, opts.Bail)
	assert.Equal(t, "md5", opts.Output.HashFunction)
	assert.Equal(t, 8, opts.Output.HashDigestLength)
	assert.Equal(t, "hex", opts.Output.HashDigest, "hash_digest left at its default when omitted")
}

func TestDecodePerformanceKeepsArbitraryHintsAsCtyValues(t *testing.T) {
	src := `
performance {
  budget_ms   = 500
  label       = "nightly"
}
`
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL([]byte(src), "test.hcl")
	require.False(t, diags.HasErrors())

	opts, err := Decode(f.Body)
	require.NoError(t, err)
	require.NotNil(t, opts.Performance)

	budget, ok := opts.Performance.Hints["budget_ms"]
	require.True(t, ok)
	assert.True(t, budget.RawEquals(cty.NumberIntVal(500)))

	label, ok := opts.Performance.Hints["label"]
	require.True(t, ok)
	assert.Equal(t, "nightly", label.AsString())
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile("/nonexistent/path/to/bundle.hcl")
	assert.Error(t, err)
}
