package host

// listeners is an ordered subscriber list that tolerates cancellation
// during dispatch: a cancelled subscriber is never called again, including
// later in the same dispatch.
type listeners[F any] struct {
	entries []*listener[F]
}

type listener[F any] struct {
	fn      F
	removed bool
}

func (l *listeners[F]) add(fn F) (cancel func()) {
	e := &listener[F]{fn: fn}
	l.entries = append(l.entries, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		kept := l.entries[:0]
		for _, other := range l.entries {
			if other != e {
				kept = append(kept, other)
			}
		}
		l.entries = kept
	}
}

func (l *listeners[F]) each(call func(F)) {
	snapshot := append([]*listener[F](nil), l.entries...)
	for _, e := range snapshot {
		if !e.removed {
			call(e.fn)
		}
	}
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}
