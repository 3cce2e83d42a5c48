package hashengine

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	"github.com/specialistvlad/bundlecore/internal/chunk"
	"github.com/specialistvlad/bundlecore/internal/module"
)

// createHash is the digest factory named in outputOptions.hashFunction.
func createHash(name string) (hash.Hash, error) {
	switch name {
	case "sha256":
		return sha256.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	case "":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("hashengine: unknown hash function %q", name)
	}
}

// digest encodes h's current sum per the requested outputOptions.hashDigest
// encoding ("hex" or "base64").
func digest(h hash.Hash, encoding string) (string, error) {
	sum := h.Sum(nil)
	switch encoding {
	case "", "hex":
		return hex.EncodeToString(sum), nil
	case "base64":
		return base64.RawURLEncoding.EncodeToString(sum), nil
	default:
		return "", fmt.Errorf("hashengine: unknown digest encoding %q", encoding)
	}
}

func truncate(s string, length int) string {
	if length <= 0 || length >= len(s) {
		return s
	}
	return s[:length]
}

// Options mirrors outputOptions' hashing knobs.
type Options struct {
	Function     string
	Digest       string
	DigestLength int
	Salt         string
}

// MainTemplate and ChunkTemplate are the subset of internal/template's
// contracts hashengine depends on, kept local to avoid importing the
// template package (which in turn has no reason to know about hashing).
type MainTemplate interface {
	UpdateHash(h hash.Hash)
	UpdateHashForChunk(h hash.Hash, c *chunk.Chunk)
}

type ChunkTemplate interface {
	UpdateHash(h hash.Hash)
	UpdateHashForChunk(h hash.Hash, c *chunk.Chunk)
}

type ModuleTemplate interface {
	UpdateHash(h hash.Hash)
}

// Params supplies everything step 1-4 of the hashing procedure needs.
type Params struct {
	MainTemplate    MainTemplate
	ChunkTemplate   ChunkTemplate
	ModuleTemplates map[string]ModuleTemplate
	ChildHashes     []string
	Messages        []string
	Modules         []*module.Module
	Chunks          []*chunk.Chunk
	// OnChunkHash is called once per chunk right after its hash is folded
	// in but before it's finalised, standing in for the chunk-hash hook.
	OnChunkHash func(*chunk.Chunk)
}

// Result is the finished compilation-level digest, kept around so
// ModifyHash can re-derive a new one without re-running the full
// procedure.
type Result struct {
	FullHash string
	Hash     string

	function      string
	digest        string
	fullHashBytes []byte
}

// Run executes the full module/chunk/compilation hashing procedure and
// returns the finished compilation hash. Module and chunk Hash/RenderedHash
// fields are set as a side effect, in the order spec.md §4.9 describes.
func Run(opts Options, p Params) (Result, error) {
	h, err := createHash(opts.Function)
	if err != nil {
		return Result{}, err
	}
	if opts.Salt != "" {
		_, _ = h.Write([]byte(opts.Salt))
	}
	if p.MainTemplate != nil {
		p.MainTemplate.UpdateHash(h)
	}
	if p.ChunkTemplate != nil {
		p.ChunkTemplate.UpdateHash(h)
	}
	for _, k := range sortedKeys(p.ModuleTemplates) {
		p.ModuleTemplates[k].UpdateHash(h)
	}
	for _, ch := range p.ChildHashes {
		_, _ = h.Write([]byte(ch))
	}
	for _, msg := range p.Messages {
		_, _ = h.Write([]byte(msg))
	}

	for _, m := range p.Modules {
		mh, err := createHash(opts.Function)
		if err != nil {
			return Result{}, err
		}
		m.UpdateHash(mh)
		mDigest, err := digest(mh, opts.Digest)
		if err != nil {
			return Result{}, err
		}
		m.Hash = mDigest
		m.RenderedHash = truncate(mDigest, opts.DigestLength)
	}

	sortedChunks := sortChunksByRuntime(p.Chunks)
	for _, c := range sortedChunks {
		ch, err := createHash(opts.Function)
		if err != nil {
			return Result{}, err
		}
		if opts.Salt != "" {
			_, _ = ch.Write([]byte(opts.Salt))
		}
		c.UpdateHash(ch)
		if c.HasRuntime() {
			if p.MainTemplate != nil {
				p.MainTemplate.UpdateHashForChunk(ch, c)
			}
		} else if p.ChunkTemplate != nil {
			p.ChunkTemplate.UpdateHashForChunk(ch, c)
		}
		if p.OnChunkHash != nil {
			p.OnChunkHash(c)
		}
		cDigest, err := digest(ch, opts.Digest)
		if err != nil {
			return Result{}, err
		}
		c.Hash = cDigest
		_, _ = h.Write([]byte(cDigest))
		c.RenderedHash = truncate(cDigest, opts.DigestLength)
	}

	fullHash, err := digest(h, opts.Digest)
	if err != nil {
		return Result{}, err
	}

	return Result{
		FullHash:      fullHash,
		Hash:          truncate(fullHash, opts.DigestLength),
		function:      opts.Function,
		digest:        opts.Digest,
		fullHashBytes: h.Sum(nil),
	}, nil
}

// ModifyHash re-digests fullHash||update to produce a new Result, without
// touching any module or chunk.
func (r Result) ModifyHash(update string) (Result, error) {
	h, err := createHash(r.function)
	if err != nil {
		return Result{}, err
	}
	_, _ = h.Write(r.fullHashBytes)
	_, _ = h.Write([]byte(update))
	fullHash, err := digest(h, r.digest)
	if err != nil {
		return Result{}, err
	}
	return Result{
		FullHash:      fullHash,
		Hash:          r.Hash,
		function:      r.function,
		digest:        r.digest,
		fullHashBytes: h.Sum(nil),
	}, nil
}

func sortedKeys(m map[string]ModuleTemplate) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortChunksByRuntime returns a stable copy of chunks ordered with
// non-runtime chunks first, since runtime chunks' hashes incorporate
// non-runtime chunk hashes and must be computed after them.
func sortChunksByRuntime(chunks []*chunk.Chunk) []*chunk.Chunk {
	out := make([]*chunk.Chunk, len(chunks))
	copy(out, chunks)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].HasRuntime() && out[j].HasRuntime()
	})
	return out
}
