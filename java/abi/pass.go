package abi

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi/memo"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/parser"
)

var log = commonlog.GetLogger("abi")

const (
	slotSuperclass  memo.Slot = "superclass"
	slotInterfaces  memo.Slot = "interfaces"
	slotPermits     memo.Slot = "permits"
	slotReturnType  memo.Slot = "return type"
	slotThrownTypes memo.Slot = "thrown types"
	slotType        memo.Slot = "type"
	slotCompactType memo.Slot = "compact constructor parameter type"
	slotBounds      memo.Slot = "bounds"
)

type Option func(*Pass)

// WithResolver lets callers wrap the resolver the lazy accessors use, for
// instance to observe how often resolution happens.
func WithResolver(wrap func(Resolver) Resolver) Option {
	return func(p *Pass) {
		p.resolver = wrap(p.resolver)
	}
}

// unit is one entered compilation unit.
type unit struct {
	file    string
	cu      *parser.Node
	pkg     *PackageElement
	imports []java.Import
	types   map[string]*TypeElement
}

// Pass is one extraction over a set of compilation units against one
// classpath. The walk fields are written by Enter on a single goroutine
// and only read once Finish has returned.
type Pass struct {
	classpath classpath.Lookup
	resolver  Resolver
	memo      *memo.Table

	finished bool
	units    []*unit
	elements map[*parser.Node]Element
	order    []Element
	topLevel []*TypeElement
	byName   map[string]*TypeElement
	packages map[string]*PackageElement
	pkgOrder []*PackageElement

	mu          sync.Mutex
	deps        map[string]*DependencyType
	diagnostics []Diagnostic
}

func NewPass(cp classpath.Lookup, opts ...Option) *Pass {
	if cp == nil {
		cp = classpath.Empty
	}
	p := &Pass{
		classpath: cp,
		memo:      memo.NewTable(),
		elements:  make(map[*parser.Node]Element),
		byName:    make(map[string]*TypeElement),
		packages:  make(map[string]*PackageElement),
		deps:      make(map[string]*DependencyType),
	}
	p.resolver = &treeResolver{pass: p}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Finish ends the walk. Every enclosed-element list is frozen and lazy
// accessors become available.
func (p *Pass) Finish() {
	if p.finished {
		violate("pass finished twice")
	}
	for _, pkg := range p.pkgOrder {
		pkg.enclosed.freeze()
	}
	p.finished = true
	log.Infof("pass finished: %d files, %d types, %d elements", len(p.units), len(p.byName), len(p.order))
}

func (p *Pass) Finished() bool {
	return p.finished
}

// Complete reads every lazy accessor of every element so that all
// resolution failures are collected. It is safe to call more than once.
func (p *Pass) Complete() {
	if !p.finished {
		violate("Complete called before Finish")
	}
	ctx := context.Background()
	for _, e := range p.order {
		complete(ctx, e)
	}
	log.Infof("pass complete: %d diagnostics", len(p.Diagnostics()))
}

// CompleteFile is Complete restricted to the declarations entered from
// file.
func (p *Pass) CompleteFile(file string) {
	if !p.finished {
		violate("CompleteFile called before Finish")
	}
	ctx := context.Background()
	for _, e := range p.order {
		if u := e.base().unit; u != nil && u.file == file {
			complete(ctx, e)
		}
	}
}

func complete(ctx context.Context, e Element) {
	switch e := e.(type) {
	case *TypeElement:
		_, _ = e.superclass(ctx)
		_, _ = e.interfaces(ctx)
		_, _ = e.permits(ctx)
	case *ExecutableElement:
		_, _ = e.returnType(ctx)
		_, _ = e.thrownTypes(ctx)
	case *VariableElement:
		_, _ = e.resolvedType(ctx)
	case *TypeParameterElement:
		_, _ = e.bounds(ctx)
	}
}

// Diagnostics returns the failures collected so far in the order they
// were first hit.
func (p *Pass) Diagnostics() []Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.diagnostics)
}

// TopLevelTypes returns the top-level types of all entered units, in the
// order they were entered.
func (p *Pass) TopLevelTypes() List[*TypeElement] {
	return List[*TypeElement]{items: p.topLevel}
}

func (p *Pass) Packages() List[*PackageElement] {
	return List[*PackageElement]{items: p.pkgOrder}
}

// ElementFor returns the element created for a declaration node.
func (p *Pass) ElementFor(node *parser.Node) (Element, bool) {
	e, ok := p.elements[node]
	return e, ok
}

// TypeElement returns the source type with the given canonical name.
func (p *Pass) TypeElement(qualifiedName string) (*TypeElement, bool) {
	te, ok := p.byName[qualifiedName]
	return te, ok
}

func (p *Pass) register(e Element) {
	node := e.Node()
	if prev, ok := p.elements[node]; ok {
		violate("%s at %s entered twice (already %s)", node.Kind, node.Span.Start, Describe(prev))
	}
	p.elements[node] = e
	p.order = append(p.order, e)
}

func (p *Pass) record(e Element, err error) {
	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		return
	}
	d := Diagnostic{
		Position:          e.Position(),
		Declaration:       Describe(e),
		Reference:         rerr.Reference,
		ReferencePosition: rerr.Position,
		Kind:              rerr.Kind,
	}
	log.Debugf("%s", d)
	p.mu.Lock()
	p.diagnostics = append(p.diagnostics, d)
	p.mu.Unlock()
}

// lazy evaluates compute once per element and slot. A failure is recorded
// as a diagnostic when it is first computed.
func lazy[T any](ctx context.Context, e Element, slot memo.Slot, compute func(context.Context) (T, error)) (T, error) {
	p := e.base().pass
	if !p.finished {
		violate("%s: %s read before the pass finished", Describe(e), slot)
	}
	return memo.Do(ctx, p.memo, memo.Key{Node: e.Node(), Slot: slot}, func(ctx context.Context) (T, error) {
		v, err := compute(ctx)
		if err != nil {
			p.record(e, err)
		}
		return v, err
	})
}
