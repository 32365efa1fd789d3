// Package memo computes derived values of declarations at most once per
// analysis pass.
//
// A Table holds one cell per (node, slot). A cell is uncomputed, computing
// or computed; a computed cell keeps either a value or an error and never
// changes again. Concurrent first access is serialized per cell: the first
// caller runs the computation and every other caller blocks on that cell
// alone until the result is published.
//
// Computations that need other cells pass on the context they were given.
// The context carries the resolution chain, so re-entering a cell the
// chain is already computing, or waiting on a cell whose owner is
// (transitively) waiting on this chain, fails with ErrCycle instead of
// looping or deadlocking. Every cell on the detected cycle is marked, so a
// computation can ask OnCycle whether it lies on one even when the
// failure was reported to another cell.
package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/alampiss/buck/java/parser"
)

var ErrCycle = errors.New("cyclic computation")

// errAbandoned is published when a computation panicked; the panic itself
// keeps propagating in the goroutine that ran it.
var errAbandoned = errors.New("computation panicked")

// Slot names one derived value of a declaration.
type Slot string

type Key struct {
	Node *parser.Node
	Slot Slot
}

type state uint8

const (
	computing state = iota + 1
	computed
)

type cell struct {
	state state
	owner *chain
	done  chan struct{}
	value any
	err   error

	onCycle atomic.Bool
}

// chain is one line of nested computations, started by a caller outside
// any computation. stack holds the cells it is computing, outermost
// first; waitingOn is the cell it is blocked on, if any. Both change only
// under the table lock.
type chain struct {
	stack     []*cell
	waitingOn *cell
}

// from returns the part of the stack starting at c.
func (ch *chain) from(c *cell) []*cell {
	for i, s := range ch.stack {
		if s == c {
			return ch.stack[i:]
		}
	}
	return nil
}

type chainKey struct{}

func chainFrom(ctx context.Context) (*chain, context.Context) {
	if ch, ok := ctx.Value(chainKey{}).(*chain); ok {
		return ch, ctx
	}
	ch := &chain{}
	return ch, context.WithValue(ctx, chainKey{}, ch)
}

type Table struct {
	mu    sync.Mutex
	cells map[Key]*cell
}

func NewTable() *Table {
	return &Table{cells: make(map[Key]*cell)}
}

// Len returns the number of cells that have been started.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cells)
}

// Computed reports whether key holds a published result.
func (t *Table) Computed(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.cells[key]
	return c != nil && c.state == computed
}

// Do returns the result of compute for key, running it only if no caller
// has started it before.
func Do[T any](ctx context.Context, t *Table, key Key, compute func(context.Context) (T, error)) (T, error) {
	ch, ctx := chainFrom(ctx)

	t.mu.Lock()
	c, started := t.cells[key]
	if !started {
		c = &cell{state: computing, owner: ch, done: make(chan struct{})}
		t.cells[key] = c
		ch.stack = append(ch.stack, c)
		t.mu.Unlock()
		return run(ctx, t, c, compute)
	}

	if c.state == computing {
		if cycle := t.cycleThrough(ch, c); cycle != nil {
			for _, on := range cycle {
				on.onCycle.Store(true)
			}
			t.mu.Unlock()
			var zero T
			return zero, ErrCycle
		}
		ch.waitingOn = c
		t.mu.Unlock()
		<-c.done
		t.mu.Lock()
		ch.waitingOn = nil
	}
	value, err := c.value, c.err
	t.mu.Unlock()

	v, _ := value.(T)
	return v, err
}

// cycleThrough returns the cells that would wait on each other if ch
// waited on c, or nil when waiting is safe. Called with t.mu held.
func (t *Table) cycleThrough(ch *chain, c *cell) []*cell {
	var cycle []*cell
	for target := c; ; {
		owner := target.owner
		if owner == nil {
			return nil
		}
		cycle = append(cycle, owner.from(target)...)
		if owner == ch {
			return cycle
		}
		if target = owner.waitingOn; target == nil {
			return nil
		}
	}
}

// OnCycle reports whether the innermost computation running on ctx has
// been found to take part in a cycle.
func OnCycle(ctx context.Context) bool {
	ch, ok := ctx.Value(chainKey{}).(*chain)
	if !ok || len(ch.stack) == 0 {
		return false
	}
	return ch.stack[len(ch.stack)-1].onCycle.Load()
}

func run[T any](ctx context.Context, t *Table, c *cell, compute func(context.Context) (T, error)) (v T, err error) {
	published := false
	defer func() {
		if !published {
			t.publish(c, nil, errAbandoned)
		}
	}()
	v, err = compute(ctx)
	t.publish(c, v, err)
	published = true
	return v, err
}

func (t *Table) publish(c *cell, v any, err error) {
	t.mu.Lock()
	c.value, c.err = v, err
	c.state = computed
	if ch := c.owner; ch != nil && len(ch.stack) > 0 {
		ch.stack = ch.stack[:len(ch.stack)-1]
	}
	c.owner = nil
	t.mu.Unlock()
	close(c.done)
}
