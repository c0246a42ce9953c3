package event

import "sync/atomic"

type source interface {
	markStale()
}

// Subscription identifies one callback registered on a Multicast.
type Subscription struct {
	owner  any
	source source
	active atomic.Bool
}

// Active reports whether the callback will still be invoked.
func (s *Subscription) Active() bool {
	return s != nil && s.active.Load()
}

// Owner returns the owner passed to SubscribeOwned, or nil.
func (s *Subscription) Owner() any {
	if s == nil {
		return nil
	}
	return s.owner
}

// Cancel stops further invocations of the callback. Cancelling twice is a
// no-op.
func (s *Subscription) Cancel() {
	s.cancel()
}

func (s *Subscription) cancel() bool {
	if s == nil || !s.active.CompareAndSwap(true, false) {
		return false
	}
	s.source.markStale()
	return true
}
