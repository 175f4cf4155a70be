package odoo

import "sync"

// ExpiryNotifier is a single-subscriber hook fired when the client detects an
// expired session. Registering replaces any previous subscriber.
type ExpiryNotifier struct {
	mu  sync.Mutex
	gen uint64
	fn  func()
}

// NewExpiryNotifier returns an empty notifier.
func NewExpiryNotifier() *ExpiryNotifier {
	return &ExpiryNotifier{}
}

// Register installs fn as the only subscriber and returns a function that removes it.
// The returned function is a no-op once a later Register has superseded fn.
func (n *ExpiryNotifier) Register(fn func()) (unregister func()) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.fn = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.fn = nil
		}
	}
}

// SetCallback overwrites the slot. A nil fn clears it.
func (n *ExpiryNotifier) SetCallback(fn func()) {
	n.mu.Lock()
	n.gen++
	n.fn = fn
	n.mu.Unlock()
}

// Notify invokes the current subscriber, if any. Safe on a nil receiver.
func (n *ExpiryNotifier) Notify() {
	if n == nil {
		return
	}
	n.mu.Lock()
	fn := n.fn
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}
