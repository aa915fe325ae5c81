package tickstream

// PairedStream is a stream carrying a secondary sequence of type S (such as
// a receive timestamp) in lock-step with the primary elements: a push
// inserts into both under one lock, and every paired read observes a
// primary/secondary pair written by the same push.
type PairedStream[T Element, S any] struct {
	*Stream[T, S]

	sec []S
}

// NewPaired returns a paired stream with the given capacity, clamped to
// [1, MaxBound].
func NewPaired[T Element, S any](bound int) *PairedStream[T, S] {
	base := New[T, S](bound)

	return &PairedStream[T, S]{
		Stream: base,
		sec:    make([]S, base.bound),
	}
}

// UsesSecondary reports true: the stream carries a secondary sequence.
func (p *PairedStream[T, S]) UsesSecondary() bool {
	return true
}

func (p *PairedStream[T, S]) secSlot(i int) S {
	return p.sec[(p.head+i)%p.bound]
}

// PushPair inserts the pair (v, sec) at the front of both sequences.
func (p *PairedStream[T, S]) PushPair(v T, sec S) {
	acquired := p.mu.TryLock()
	p.pushPriority.Store(acquired)
	if !acquired {
		p.mu.Lock()
	}

	p.insertLocked(v)
	p.sec[p.head] = sec

	p.mu.Unlock()
}

// Push inserts v paired with the zero S.
func (p *PairedStream[T, S]) Push(v T) {
	var zero S
	p.PushPair(v, zero)
}

// PushValue pushes a value of any convertible type paired with sec.
func (p *PairedStream[T, S]) PushValue(v any, sec S) error {
	tv, err := pushConvert[T](v)
	if err != nil {
		return err
	}

	p.PushPair(tv, sec)

	return nil
}

// Secondary returns the secondary element at logical index i. Unlike At,
// index 0 is not special-cased: the marker is always placed at i-1.
func (p *PairedStream[T, S]) Secondary(i int) (S, error) {
	var zero S

	p.mu.Lock()
	defer p.mu.Unlock()

	i, _, err := p.checkAdj("Secondary", i, 0)
	if err != nil {
		return zero, err
	}

	p.marker.Store(int64(i) - 1)

	return p.secSlot(i), nil
}

// Both returns the primary element at index i wrapped as a Value together
// with its lock-step secondary. Marker movement follows At.
func (p *PairedStream[T, S]) Both(i int) (Value, S, error) {
	var zero S

	p.mu.Lock()
	defer p.mu.Unlock()

	gen, err := p.atLocked(i)
	if err != nil {
		return Value{}, zero, err
	}

	if i == 0 {
		return gen, p.sec[p.head], nil
	}

	i, _, err = p.checkAdj("Both", i, 0)
	if err != nil {
		return Value{}, zero, err
	}

	return gen, p.secSlot(i), nil
}

// SecondaryVector returns a freshly allocated snapshot of the secondary
// range, without promoting through the generic wrapper, and places the
// marker at beg-1.
func (p *PairedStream[T, S]) SecondaryVector(end, beg int) ([]S, error) {
	p.yieldToPush()

	p.mu.Lock()
	defer p.mu.Unlock()

	end, beg, err := p.checkAdj("SecondaryVector", end, beg)
	if err != nil {
		return nil, err
	}

	stop := min(end+1, p.count)

	out := make([]S, 0, max(stop-beg, 0))
	for i := beg; i < stop; i++ {
		out = append(out, p.secSlot(i))
	}

	p.marker.Store(int64(beg) - 1)

	return out, nil
}

// CopyPair snapshots the primary range into dest and, when sec is non-nil,
// the lock-step secondary range into sec, both under one lock acquisition.
// Truncation follows Copy, applied per destination.
func (p *PairedStream[T, S]) CopyPair(dest []T, sec []S, end, beg int) (int, error) {
	const op = "CopyPair"

	if dest == nil {
		return 0, argErr(op, "nil destination")
	}

	p.yieldToPush()

	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := p.copyLocked(op, dest, end, beg)
	if err != nil || sec == nil {
		return n, err
	}

	// Re-normalize: copyLocked consumed the adjusted indexes.
	end, beg, err = p.checkAdj(op, end, beg)
	if err != nil {
		return n, err
	}

	p.copySecRange(sec, end, beg)

	return n, nil
}

// CopyPairUsingMarker is CopyPair with the marker as the end index.
func (p *PairedStream[T, S]) CopyPairUsingMarker(dest []T, sec []S, beg int) (int, error) {
	m := p.marker.Load()
	if m < 0 {
		return 0, markerErr("CopyPairUsingMarker")
	}

	return p.CopyPair(dest, sec, int(m), beg)
}

func (p *PairedStream[T, S]) copySecRange(sec []S, end, beg int) int {
	if end == beg {
		if len(sec) == 0 || beg >= p.count {
			return 0
		}
		sec[0] = p.secSlot(beg)
		return 1
	}

	stop := min(beg+len(sec), end+1, p.count)

	n := 0
	for i := beg; i < stop; i++ {
		sec[n] = p.secSlot(i)
		n++
	}

	return n
}

// CopyStringsPair renders the primary range into the rows of dest like
// CopyStrings and, when sec is non-nil, snapshots the lock-step secondary
// range into sec.
func (p *PairedStream[T, S]) CopyStringsPair(dest [][]byte, colBytes int, sec []S, end, beg int) (int, error) {
	const op = "CopyStringsPair"

	if dest == nil {
		return 0, argErr(op, "nil destination")
	}
	if colBytes < 2 {
		return 0, argErr(op, "column size must hold at least one byte and a NUL")
	}

	p.yieldToPush()

	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := p.copyStringsLocked(op, dest, colBytes, end, beg)
	if err != nil || sec == nil {
		return n, err
	}

	end, beg, err = p.checkAdj(op, end, beg)
	if err != nil {
		return n, err
	}

	p.copySecRange(sec, end, beg)

	return n, nil
}

// Resize changes the capacity of both sequences, keeping them in lock-step.
func (p *PairedStream[T, S]) Resize(n int) int {
	n = clampBound(n)

	p.mu.Lock()
	defer p.mu.Unlock()

	// The secondary must be rebuilt against the old head before the base
	// resize resets it.
	p.sec = resizeSeq(p.sec, p.head, p.bound, n)
	p.resizeLocked(n)

	return n
}

// Clone returns a deep copy of both sequences with a fresh lock and marker
// cell.
func (p *PairedStream[T, S]) Clone() *PairedStream[T, S] {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := &PairedStream[T, S]{
		Stream: p.cloneLocked(),
		sec:    make([]S, len(p.sec)),
	}
	copy(c.sec, p.sec)

	return c
}
