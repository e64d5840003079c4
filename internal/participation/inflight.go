package participation

import "sync"

// Inflight admits one action per key at a time across requests, so a double
// click that reaches the server twice is refused rather than sent twice.
type Inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInflight() *Inflight {
	return &Inflight{keys: make(map[string]struct{})}
}

// Acquire reports false when key is already held. Otherwise the caller must
// call release when done.
func (f *Inflight) Acquire(key string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.keys[key]; held {
		return nil, false
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, true
}
