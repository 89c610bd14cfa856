package syntax

import "slices"

// EqualMode selects what besides kind and shape two nodes must share.
type EqualMode uint8

const (
	// CompareRange requires identical byte ranges.
	CompareRange EqualMode = iota
	// CompareSource requires identical source text, wherever it sits.
	CompareSource
)

type nodePair struct{ a, b NodeRef }

// Equal reports whether a and b have the same kind, range (or source text,
// per mode) and pairwise equal children, recursively. It runs on an explicit
// work list and stops at the first mismatch.
func Equal(a, b NodeRef, mode EqualMode) bool {
	if a.Valid() != b.Valid() {
		return false
	}
	if !a.Valid() {
		return true
	}
	work := []nodePair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if !sameNode(p.a, p.b, mode) {
			return false
		}

		base := len(work)
		ca, cb := p.a.Child(), p.b.Child()
		for ca.Valid() && cb.Valid() {
			work = append(work, nodePair{ca, cb})
			ca, cb = ca.Next(), cb.Next()
		}
		if ca.Valid() || cb.Valid() {
			return false
		}
		// левые дети проверяются первыми
		slices.Reverse(work[base:])
	}
	return true
}

func sameNode(a, b NodeRef, mode EqualMode) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if mode == CompareSource {
		return a.Source() == b.Source()
	}
	return a.Range() == b.Range()
}
