package abi

import "iter"

// List is a read-only ordered view of elements.
type List[T any] struct {
	items []T
}

func (l List[T]) Len() int { return len(l.items) }

func (l List[T]) At(i int) T { return l.items[i] }

func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Slice returns a copy the caller may modify.
func (l List[T]) Slice() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// builder is the append-only construction stage of a List. Only the walk
// appends; the first read freezes it.
type builder[T any] struct {
	items  []T
	frozen bool
}

func (b *builder[T]) add(owner Element, item T) {
	if b.frozen {
		violate("%s: enclosed element added after its scope was frozen", Describe(owner))
	}
	b.items = append(b.items, item)
}

func (b *builder[T]) freeze() {
	if !b.frozen {
		b.frozen = true
	}
}

func (b *builder[T]) view() List[T] {
	b.freeze()
	return List[T]{items: b.items}
}

func (b *builder[T]) len() int { return len(b.items) }
