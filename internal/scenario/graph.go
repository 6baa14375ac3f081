package scenario

import (
	"fmt"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Graph is a built scenario: a reactive dependency graph with one source
// field and a counter of terminal reactions.
type Graph struct {
	rt     *ripple.Runtime
	source *ripple.Object
	deep   *ripple.Object // innermost object of a deep graph, nil otherwise

	// Reactions counts terminal watcher callbacks across all writes.
	Reactions int
}

// Build constructs the scenario's graph on rt.
func Build(rt *ripple.Runtime, s Scenario) (*Graph, error) {
	g := &Graph{rt: rt}

	switch s.Kind {
	case KindChain:
		g.buildChain(s.Width, s.Depth)
	case KindFanout:
		g.buildFanout(s.Width)
	case KindDiamond:
		g.buildDiamond(s.Width)
	case KindDeep:
		g.buildDeep(s.Depth)
	default:
		return nil, fmt.Errorf("unknown scenario kind %q", s.Kind)
	}
	return g, nil
}

// Mutate performs one source write and drives the flush.
func (g *Graph) Mutate(i int) {
	if g.deep != nil {
		g.deep.Set("v", i)
	} else {
		g.source.Set("v", i)
	}
	g.rt.Tick()
}

func (g *Graph) newSource() *ripple.Object {
	g.source = ripple.ObjectOf(g.rt, map[string]any{"v": 0})
	ripple.Observe(g.rt, g.source, false)
	return g.source
}

func (g *Graph) terminal() func(newVal, oldVal any) {
	return func(newVal, oldVal any) { g.Reactions++ }
}

func (g *Graph) buildChain(width, depth int) {
	src := g.newSource()
	for w := 0; w < width; w++ {
		prev := ripple.NewWatcher(g.rt, src, func(owner any) any {
			return owner.(*ripple.Object).Get("v").(int) + 1
		}, nil, ripple.WatchOptions{Lazy: true})

		for d := 1; d < depth; d++ {
			up := prev
			prev = ripple.NewWatcher(g.rt, nil, func(any) any {
				return up.Value().(int) + 1
			}, nil, ripple.WatchOptions{Lazy: true})
		}

		last := prev
		ripple.NewWatcher(g.rt, nil, func(any) any {
			return last.Value()
		}, g.terminal(), ripple.WatchOptions{})
	}
}

func (g *Graph) buildFanout(width int) {
	src := g.newSource()
	for i := 0; i < width; i++ {
		ripple.NewWatcher(g.rt, src, "v", g.terminal(),
			ripple.WatchOptions{User: true})
	}
}

func (g *Graph) buildDiamond(width int) {
	src := g.newSource()
	arms := make([]*ripple.Watcher, width)
	for i := range arms {
		arms[i] = ripple.NewWatcher(g.rt, src, func(owner any) any {
			return owner.(*ripple.Object).Get("v").(int) * 2
		}, nil, ripple.WatchOptions{Lazy: true})
	}
	ripple.NewWatcher(g.rt, src, func(owner any) any {
		sum := owner.(*ripple.Object).Get("v").(int)
		for _, arm := range arms {
			sum += arm.Value().(int)
		}
		return sum
	}, g.terminal(), ripple.WatchOptions{})
}

func (g *Graph) buildDeep(depth int) {
	inner := ripple.ObjectOf(g.rt, map[string]any{"v": 0})
	cur := inner
	for d := 1; d < depth; d++ {
		cur = ripple.ObjectOf(g.rt, map[string]any{"child": cur})
	}
	root := ripple.ObjectOf(g.rt, map[string]any{"tree": cur})
	ripple.Observe(g.rt, root, false)
	g.source = root
	g.deep = inner

	ripple.NewWatcher(g.rt, root, func(owner any) any {
		return owner.(*ripple.Object).Get("tree")
	}, g.terminal(), ripple.WatchOptions{Deep: true})
}
