package syntax

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is an append-only store addressed by 1-based indices; 0 means "none".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with the given capacity hint; zero is allowed.
func NewArena[T any](capHint int) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, max(capHint, 0)),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}

// Clone returns an independent copy.
func (a *Arena[T]) Clone() *Arena[T] {
	return &Arena[T]{data: append(make([]T, 0, len(a.data)), a.data...)}
}
