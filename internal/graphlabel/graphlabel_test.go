package graphlabel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specialistvlad/bundlecore/internal/module"
)

func link(from, to *module.Module, tag string) {
	dep := module.NewDependency(tag, to.Identifier())
	dep.SetModule(to)
	from.Dependencies = append(from.Dependencies, dep)
}

func TestAssignIndex_LinearChainOrdersByDepthFirstVisit(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	c := module.New("c", nil)
	link(a, b, "import")
	link(b, c, "import")

	AssignIndex(a)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, c.Index)

	// Post-order: c finishes first, then b, then a.
	assert.Equal(t, 0, c.Index2)
	assert.Equal(t, 1, b.Index2)
	assert.Equal(t, 2, a.Index2)
}

func TestAssignIndex_CycleIsIdempotentAndTerminates(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	link(a, b, "import")
	link(b, a, "import") // cycle back to a

	AssignIndex(a)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.GreaterOrEqual(t, a.Index2, 0)
	assert.GreaterOrEqual(t, b.Index2, 0)
}

func TestAssignIndex_DependencyArrayOrderPreserved(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	c := module.New("c", nil)
	link(a, b, "import")
	link(a, c, "import")

	AssignIndex(a)

	assert.Less(t, b.Index, c.Index) // visited in array order: b before c
}

func TestAssignIndex_NoReferenceDependencyIsSkipped(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	dep := module.NewDependency("typeof", "b")
	dep.SetModule(b)
	dep.SetNoReference(true)
	a.Dependencies = append(a.Dependencies, dep)

	AssignIndex(a)

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, -1, b.Index) // never entered, no traversal edge
}

func TestAssignDepth_LinearChainIncrementsByOne(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	c := module.New("c", nil)
	link(a, b, "import")
	link(b, c, "import")

	AssignDepth(a)

	assert.Equal(t, 0, a.Depth)
	assert.Equal(t, 1, b.Depth)
	assert.Equal(t, 2, c.Depth)
}

func TestAssignDepth_DiamondTakesShortestPath(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	c := module.New("c", nil)
	d := module.New("d", nil)
	link(a, b, "import")
	link(a, c, "import")
	link(b, d, "import")
	link(c, d, "import")

	AssignDepth(a)
	assert.Equal(t, 2, d.Depth)
}

func TestAssignDepth_CycleTerminates(t *testing.T) {
	a := module.New("a", nil)
	b := module.New("b", nil)
	link(a, b, "import")
	link(b, a, "import")

	AssignDepth(a)
	assert.Equal(t, 0, a.Depth)
	assert.Equal(t, 1, b.Depth)
}
