package graphlabel

import (
	"github.com/specialistvlad/bundlecore/internal/module"
	"github.com/specialistvlad/bundlecore/internal/workqueue"
)

type actionKind uint8

const (
	actionEnterModule actionKind = iota
	actionLeaveModule
	actionBlock
)

type action struct {
	kind   actionKind
	module *module.Module
	block  *module.Block
}

// AssignIndex performs the modified DFS producing Index (pre-order) and
// Index2 (post-order) over every module reachable from root. It is safe
// to call repeatedly or starting from multiple entry roots in sequence:
// a module whose Index is already numeric (>= 0) is left untouched.
func AssignIndex(root *module.Module) {
	nextIndex := 0
	nextIndex2 := 0
	stack := workqueue.NewStack[action]()
	stack.Push(action{kind: actionEnterModule, module: root})

	for {
		item, ok := stack.Pop()
		if !ok {
			break
		}
		switch item.kind {
		case actionEnterModule:
			m := item.module
			if m.Index >= 0 {
				continue // idempotent: already labelled, including cycles back to it
			}
			m.Index = nextIndex
			nextIndex++
			stack.Push(action{kind: actionLeaveModule, module: m})
			pushBlockContents(stack, module.EffectiveDependencies(m.Variables, m.Dependencies), m.Blocks)

		case actionLeaveModule:
			item.module.Index2 = nextIndex2
			nextIndex2++

		case actionBlock:
			b := item.block
			pushBlockContents(stack, module.EffectiveDependencies(b.Variables, b.Dependencies), b.Blocks)
		}
	}
}

// pushBlockContents pushes a block-like container's nested blocks and
// dependencies so that, once popped, dependencies are visited in their
// own array order and nested blocks in reverse array order (see
// spec.md §4.6): nested blocks are pushed in natural order (so LIFO
// popping reverses them), and dependencies are pushed in reverse order
// (so LIFO popping restores their natural order) on top of the blocks.
func pushBlockContents(stack *workqueue.Stack[action], deps []*module.Dependency, blocks []*module.Block) {
	for _, b := range blocks {
		stack.Push(action{kind: actionBlock, block: b})
	}
	for i := len(deps) - 1; i >= 0; i-- {
		ref := deps[i].GetReference()
		if ref == nil {
			continue
		}
		stack.Push(action{kind: actionEnterModule, module: ref})
	}
}

// AssignDepth performs a BFS-like relaxation: root.Depth = 0, and every
// dependency target's depth becomes one more than its discoverer's depth
// unless it already has a depth <= that value. Because depths can only
// decrease as better (shorter) paths are discovered, a module is
// re-enqueued whenever its depth actually improves, guaranteeing the pass
// still terminates on cyclic graphs.
func AssignDepth(root *module.Module) {
	root.Depth = 0
	queue := []*module.Module{root}

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		d := m.Depth

		for _, target := range reachableModules(m) {
			if target.Depth == -1 || target.Depth > d+1 {
				target.Depth = d + 1
				queue = append(queue, target)
			}
		}
	}
}

func reachableModules(m *module.Module) []*module.Module {
	var out []*module.Module
	deps := module.EffectiveDependencies(m.Variables, m.Dependencies)
	out = append(out, targetsOf(deps)...)
	for _, b := range m.Blocks {
		out = append(out, reachableFromBlock(b)...)
	}
	return out
}

func reachableFromBlock(b *module.Block) []*module.Module {
	var out []*module.Module
	deps := module.EffectiveDependencies(b.Variables, b.Dependencies)
	out = append(out, targetsOf(deps)...)
	for _, nested := range b.Blocks {
		out = append(out, reachableFromBlock(nested)...)
	}
	return out
}

func targetsOf(deps []*module.Dependency) []*module.Module {
	var out []*module.Module
	for _, d := range deps {
		if ref := d.GetReference(); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}
