package proc

import "sync"

// notifier calls subscribed funcs on change, subscribers read the new state from the service
type notifier struct {
	subMu  sync.Mutex
	nextID int
	subs   map[int]func()
}

// Subscribe adds fn called after each change. Returned func removes the subscription.
func (n *notifier) Subscribe(fn func()) (unsubscribe func()) {
	n.subMu.Lock()
	defer n.subMu.Unlock()
	if n.subs == nil {
		n.subs = map[int]func(){}
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.subMu.Lock()
		delete(n.subs, id)
		n.subMu.Unlock()
	}
}

func (n *notifier) notify() {
	n.subMu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
