package source

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// StringID is a stable handle for an interned string.
// Equal content always yields the same StringID for the lifetime of the Interner.
type StringID uint32

const NoStringID StringID = 0

// Interner is an append-only, concurrency-safe string pool.
// Reads take the shared lock; inserts take the exclusive lock and re-check
// presence under it, so two racing writers never allocate the same text twice.
// Entries are never evicted: every StringID handed out stays valid.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},               // NoStringID → пустая строка
		index: map[string]StringID{"": 0}, // сохраняем явное соответствие
	}
}

// Intern вставляет строку в иннер и возвращает её ID.
// Если строка уже есть, возвращает её ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.Get(s); ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	// повторная проверка: другой писатель мог успеть вставить ту же строку
	if id, ok := i.index[s]; ok {
		return id
	}

	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	// Создаём собственную копию строки, чтобы не зависеть от исходного буфера.
	cpy := strings.Clone(s)
	id := StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes вставляет байты в иннер и возвращает ID строки.
func (i *Interner) InternBytes(b []byte) StringID {
	if id, ok := i.getBytes(b); ok {
		return id
	}
	return i.Intern(string(b))
}

// Get is a read-only probe: it reports the ID of s if s was interned before.
func (i *Interner) Get(s string) (StringID, bool) {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	return id, ok
}

func (i *Interner) getBytes(b []byte) (StringID, bool) {
	i.mu.RLock()
	id, ok := i.index[string(b)] // без аллокации: компилятор оптимизирует map[string(b)]
	i.mu.RUnlock()
	return id, ok
}

// Lookup возвращает строку по ID.
// The returned string shares storage with every other lookup of the same ID.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup возвращает строку по ID.
// Если ID не валиден, паникует.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has проверяет, валиден ли ID.
func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len возвращает количество строк в иннер.
// NoStringID тоже учитывается. Не может быть меньше 1.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot возвращает копию всех строк в иннер.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
