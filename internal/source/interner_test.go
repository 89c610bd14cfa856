package source

import (
	"fmt"
	"sync"
	"testing"
	"time"
	"unsafe"
)

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	// NoStringID зарезервирован для пустой строки
	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to the empty string, got %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("hello")
	if id1 == NoStringID {
		t.Error("Intern must not return NoStringID for a non-empty string")
	}
	if id2 := interner.Intern("hello"); id1 != id2 {
		t.Errorf("equal strings must share an ID: %d != %d", id1, id2)
	}
	if s, ok := interner.Lookup(id1); !ok || s != "hello" {
		t.Errorf("Lookup returned %q, ok=%v", s, ok)
	}
	if id3 := interner.Intern("world"); id3 == id1 {
		t.Error("different strings must have different IDs")
	}
	if interner.Len() != 3 { // "", "hello", "world"
		t.Errorf("Len = %d, want 3", interner.Len())
	}
}

func TestInternerGetIsReadOnly(t *testing.T) {
	interner := NewInterner()

	if _, ok := interner.Get("absent"); ok {
		t.Fatal("Get reported a string that was never interned")
	}
	if interner.Len() != 1 {
		t.Fatalf("Get must not insert, Len = %d", interner.Len())
	}

	id := interner.Intern("present")
	got, ok := interner.Get("present")
	if !ok || got != id {
		t.Fatalf("Get = %d, %v; want %d, true", got, ok, id)
	}
}

func TestInternerHandleIdentity(t *testing.T) {
	interner := NewInterner()

	// строки с одинаковым содержимым, но из разных буферов
	a := string([]byte("identifier"))
	b := string([]byte("identifier"))

	ida := interner.Intern(a)
	idb := interner.Intern(b)
	if ida != idb {
		t.Fatalf("IDs differ: %d != %d", ida, idb)
	}

	sa := interner.MustLookup(ida)
	sb := interner.MustLookup(idb)
	if unsafe.StringData(sa) != unsafe.StringData(sb) {
		t.Error("lookups of one ID must share storage")
	}
}

func TestInternerHandlesSurviveGrowth(t *testing.T) {
	interner := NewInterner()

	first := interner.Intern("first")
	before := interner.MustLookup(first)

	for i := range 10_000 {
		interner.Intern(fmt.Sprintf("filler_%d", i))
	}

	after := interner.MustLookup(first)
	if after != "first" {
		t.Fatalf("handle invalidated by growth: %q", after)
	}
	if unsafe.StringData(before) != unsafe.StringData(after) {
		t.Error("stored string moved after growth")
	}
	if again := interner.Intern("first"); again != first {
		t.Errorf("re-intern after growth gave %d, want %d", again, first)
	}
}

func TestInternerBytes(t *testing.T) {
	interner := NewInterner()

	id1 := interner.InternBytes([]byte("test"))
	id2 := interner.Intern("test")

	if id1 != id2 {
		t.Errorf("InternBytes and Intern disagree: %d != %d", id1, id2)
	}
}

func TestInternerMustLookup(t *testing.T) {
	interner := NewInterner()

	id := interner.Intern("test")
	if s := interner.MustLookup(id); s != "test" {
		t.Errorf("MustLookup returned %q", s)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup must panic for an unknown ID")
		}
	}()
	interner.MustLookup(StringID(9999))
}

func TestInternerSnapshot(t *testing.T) {
	interner := NewInterner()

	interner.Intern("hello")
	interner.Intern("world")

	snapshot := interner.Snapshot()
	if len(snapshot) != 3 {
		t.Errorf("Snapshot has %d entries, want 3", len(snapshot))
	}

	// это копия, изменения не влияют на interner
	snapshot[0] = "modified"
	if s, _ := interner.Lookup(NoStringID); s != "" {
		t.Error("modifying a snapshot leaked into the interner")
	}
}

func TestInternerStringCopy(t *testing.T) {
	interner := NewInterner()

	buf := []byte("original")
	id := interner.InternBytes(buf)
	buf[0] = 'X'

	if s, ok := interner.Lookup(id); !ok || s != "original" {
		t.Errorf("interner must keep its own copy, got %q", s)
	}
}

// Тесты параллельного доступа

func TestInternerConcurrentIntern(t *testing.T) {
	interner := NewInterner()
	const numGoroutines = 64
	const numStrings = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make([][]StringID, numGoroutines)
	for g := range numGoroutines {
		go func() {
			defer wg.Done()
			ids := make([]StringID, numStrings)
			for i := range numStrings {
				ids[i] = interner.Intern(fmt.Sprintf("string_%d", i))
			}
			results[g] = ids
		}()
	}
	wg.Wait()

	if interner.Len() != numStrings+1 {
		t.Fatalf("duplicate entries: Len = %d, want %d", interner.Len(), numStrings+1)
	}
	// все горутины должны получить одни и те же ID
	for g := 1; g < numGoroutines; g++ {
		for i := range numStrings {
			if results[g][i] != results[0][i] {
				t.Fatalf("goroutine %d got ID %d for string_%d, goroutine 0 got %d",
					g, results[g][i], i, results[0][i])
			}
		}
	}
}

func TestInternerNoDeadlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deadlock test in short mode")
	}

	interner := NewInterner()
	const numGoroutines = 64
	done := make(chan struct{})

	go func() {
		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for range numGoroutines {
			go func() {
				defer wg.Done()
				for i := range 1000 {
					switch i % 6 {
					case 0:
						interner.Intern(fmt.Sprintf("s_%d", i))
					case 1:
						interner.InternBytes(fmt.Appendf(nil, "s_%d", i))
					case 2:
						interner.Lookup(StringID(i % 100))
					case 3:
						interner.Get(fmt.Sprintf("s_%d", i%50))
					case 4:
						interner.Snapshot()
					case 5:
						if id := interner.Intern(fmt.Sprintf("s_%d", i%50)); interner.Has(id) {
							interner.MustLookup(id)
						}
					}
				}
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("interner operations hung, possible deadlock")
	}
}

func BenchmarkInternerInternDuplicate(b *testing.B) {
	interner := NewInterner()
	interner.Intern("duplicate")
	b.ResetTimer()
	for range b.N {
		interner.Intern("duplicate")
	}
}

func BenchmarkInternerConcurrentIntern(b *testing.B) {
	interner := NewInterner()
	words := make([]string, 256)
	for i := range words {
		words[i] = fmt.Sprintf("word_%d", i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			interner.Intern(words[i%len(words)])
			i++
		}
	})
}
