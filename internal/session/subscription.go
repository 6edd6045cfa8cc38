package session

// Subscription delivers snapshots after every change. Its channel holds at
// most one snapshot; a slow reader skips straight to the newest state.
type Subscription struct {
	s  *Session
	ch chan Snapshot
}

// Subscribe registers for change notifications. The current snapshot is
// delivered immediately. The channel is closed by Close on either the
// subscription or the session.
func (s *Session) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription{s: s, ch: make(chan Snapshot, 1)}
	if s.closed {
		close(sub.ch)
		return sub
	}
	sub.ch <- s.snapshotLocked()
	s.subs[sub] = struct{}{}
	return sub
}

// C returns the snapshot channel
func (sub *Subscription) C() <-chan Snapshot {
	return sub.ch
}

// Close stops delivery and closes the channel
func (sub *Subscription) Close() {
	s := sub.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.ch)
	}
}

// offer replaces any unread snapshot with snap. Only called with s.mu held,
// so there is never a competing sender.
func (sub *Subscription) offer(snap Snapshot) {
	select {
	case sub.ch <- snap:
		return
	default:
	}

	select {
	case <-sub.ch:
	default:
	}

	select {
	case sub.ch <- snap:
	default:
	}
}
