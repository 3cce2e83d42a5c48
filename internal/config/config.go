// Package config holds the CompilerOptions a Compiler is constructed
// with: exactly the knobs spec.md §6 lists as consulted by the
// compilation core, plus the expansion's ModuleCacheSize. Loading a
// config file from disk remains out of scope for the core (spec.md §1
// places "configuration loading" with the external collaborators), but
// the struct and its HCL decoding are ambient infrastructure any embedder
// needs, built the way the teacher builds its own options model
// (internal/model.Runner's gohcl.DecodeBody shape, generalized from a
// manifest file to a single options block).
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// OutputOptions mirrors output.hashFunction/hashDigest/hashDigestLength/
// hashSalt from spec.md §6.
type OutputOptions struct {
	HashFunction     string
	HashDigest       string
	HashDigestLength int
	HashSalt         string
}

// hclOutputOptions is OutputOptions' decoding target: pointer attributes
// so an absent one doesn't overwrite a default already in place (see
// hclCompilerOptions).
type hclOutputOptions struct {
	HashFunction     *string `hcl:"hash_function,optional"`
	HashDigest       *string `hcl:"hash_digest,optional"`
	HashDigestLength *int    `hcl:"hash_digest_length,optional"`
	HashSalt         *string `hcl:"hash_salt,optional"`
}

// Performance is the top-level performance block: spec.md §6 lists it as
// consulted but never says what it configures beyond "performance
// hints". Rather than guess at a fixed schema, Hints keeps whatever
// attributes the performance block was given as cty.Values, the way the
// teacher's own HCL decoding keeps step arguments as cty.Values until a
// runner interprets them (internal/bggohcl, internal/hcl_adapter) — an
// embedder's own reporting layer is the thing that knows what to do with
// a "sample_rate" or "budget_ms" hint, not this package.
type Performance struct {
	Hints map[string]cty.Value
}

type hclPerformance struct {
	Remain hcl.Body `hcl:",remain"`
}

func decodePerformance(body hcl.Body) (*Performance, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	hints := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		hints[name] = v
	}
	return &Performance{Hints: hints}, nil
}

// CompilerOptions is the full set of knobs spec.md §6 says the
// compilation core consults.
type CompilerOptions struct {
	Output          OutputOptions
	Parallelism     int
	Bail            bool
	Profile         bool
	Performance     *Performance
	ModuleCacheSize int
}

// hclCompilerOptions is the decoding target: every block is a pointer so
// gohcl treats it as optional (0 or 1 occurrences) rather than requiring
// it, and every attribute is a pointer so an absent attribute leaves the
// corresponding CompilerOptions field at whatever Default() already put
// there instead of gohcl zeroing it out.
type hclCompilerOptions struct {
	Output          *hclOutputOptions `hcl:"output,block"`
	Parallelism     *int              `hcl:"parallelism,optional"`
	Bail            *bool             `hcl:"bail,optional"`
	Profile         *bool             `hcl:"profile,optional"`
	Performance     *hclPerformance   `hcl:"performance,block"`
	ModuleCacheSize *int              `hcl:"module_cache_size,optional"`
}

// Default returns the options a Compiler uses when none are supplied:
// sha256/hex hashing truncated to 20 characters, parallelism capped at the
// Semaphore's own DefaultCapacity (kept as a literal 100 here so this
// package doesn't need to import internal/semaphore just for one
// constant), and no bail.
func Default() *CompilerOptions {
	return &CompilerOptions{
		Output: OutputOptions{
			HashFunction:     "sha256",
			HashDigest:       "hex",
			HashDigestLength: 20,
		},
		Parallelism: 100,
	}
}

// Decode decodes body into a fresh CompilerOptions seeded with Default's
// values, so a file that omits a block or attribute still gets a usable
// default for it.
func Decode(body hcl.Body) (*CompilerOptions, error) {
	var raw hclCompilerOptions
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, diags
	}

	opts := Default()
	if raw.Parallelism != nil {
		opts.Parallelism = *raw.Parallelism
	}
	if raw.Bail != nil {
		opts.Bail = *raw.Bail
	}
	if raw.Profile != nil {
		opts.Profile = *raw.Profile
	}
	if raw.ModuleCacheSize != nil {
		opts.ModuleCacheSize = *raw.ModuleCacheSize
	}
	if raw.Output != nil {
		if raw.Output.HashFunction != nil {
			opts.Output.HashFunction = *raw.Output.HashFunction
		}
		if raw.Output.HashDigest != nil {
			opts.Output.HashDigest = *raw.Output.HashDigest
		}
		if raw.Output.HashDigestLength != nil {
			opts.Output.HashDigestLength = *raw.Output.HashDigestLength
		}
		if raw.Output.HashSalt != nil {
			opts.Output.HashSalt = *raw.Output.HashSalt
		}
	}
	if raw.Performance != nil {
		perf, err := decodePerformance(raw.Performance.Remain)
		if err != nil {
			return nil, fmt.Errorf("config: decoding performance block: %w", err)
		}
		opts.Performance = perf
	}
	return opts, nil
}

// DecodeFile parses and decodes an HCL file from disk. It is the one
// place in this package that touches the filesystem; everything else in
// the compilation core accepts its collaborators by dependency injection
// per spec.md §6.
func DecodeFile(path string) (*CompilerOptions, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parsing %s: %w", path, diags)
	}
	return Decode(f.Body)
}
