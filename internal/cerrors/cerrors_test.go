package cerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryModuleNotFound_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &EntryModuleNotFound{EntryName: "main", Request: "./main.go", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "main")
	assert.Contains(t, err.Error(), "./main.go")
}

func TestModuleNotFound_AsMatchesConcreteType(t *testing.T) {
	err := fWrap(&ModuleNotFound{Request: "./x", Origin: "a", Cause: errors.New("boom")})

	var target *ModuleNotFound
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "./x", target.Request)
}

func TestChunkRenderError_MessageIncludesChunkName(t *testing.T) {
	err := &ChunkRenderError{ChunkName: "main", Cause: errors.New("render failed")}
	assert.Contains(t, err.Error(), "main")
	assert.Contains(t, err.Error(), "render failed")
}

func TestFactoryLookupError_HasNoCauseToUnwrap(t *testing.T) {
	err := &FactoryLookupError{Tag: "import"}
	assert.Contains(t, err.Error(), "import")
	assert.Nil(t, errors.Unwrap(err))
}

func TestAssetConflictError_NamesBothChunks(t *testing.T) {
	err := &AssetConflictError{File: "main.js", ChunkA: "a", ChunkB: "b"}
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.Contains(t, err.Error(), "main.js")
}

func fWrap(err error) error {
	return errors.Join(err)
}
