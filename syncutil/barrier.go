// Package syncutil implements the meet-up coordination primitives used
// to keep the updater and the per-surface renderers in lockstep once
// per frame (spec §5): a master/slave barrier and a rendezvous channel.
package syncutil

import "sync"

// barrierState is the shared state behind one MasterBarrier and its
// family of SlaveBarriers. generation increments every time the master
// releases a round, so a slave waiting on an old generation always
// wakes exactly once per round (original_source/zsw-util/src/master_barrier.rs,
// reworked around sync.Cond instead of hand-rolled Wakers).
type barrierState struct {
	mu           sync.Mutex
	cond         *sync.Cond
	activeSlaves int
	arrived      int
	generation   int
}

func newBarrierState() *barrierState {
	st := &barrierState{}
	st.cond = sync.NewCond(&st.mu)
	return st
}

// MasterBarrier waits, once per frame, for every currently active
// slave to meet up.
type MasterBarrier struct {
	state *barrierState
}

// InactiveSlaveBarrier is a slave barrier slot that hasn't joined the
// rendezvous yet; Activate promotes it once its owning task starts.
type InactiveSlaveBarrier struct {
	state *barrierState
}

// SlaveBarrier meets up with the master once per frame.
type SlaveBarrier struct {
	state *barrierState
}

// NewBarrier creates a master barrier and a pool of n inactive slave
// slots, one per slave task expected to join the rendezvous (spec §5:
// each surface renderer; the updater holds the master).
func NewBarrier(n int) (*MasterBarrier, []*InactiveSlaveBarrier) {
	state := newBarrierState()
	slaves := make([]*InactiveSlaveBarrier, n)
	for i := range slaves {
		slaves[i] = &InactiveSlaveBarrier{state: state}
	}
	return &MasterBarrier{state: state}, slaves
}

// Activate turns an inactive slot into a live SlaveBarrier; the master
// will not meet up until at least one slave has activated.
func (s *InactiveSlaveBarrier) Activate() *SlaveBarrier {
	st := s.state
	st.mu.Lock()
	st.activeSlaves++
	st.mu.Unlock()
	return &SlaveBarrier{state: st}
}

// Release deactivates a slave, e.g. when its surface is closed.
func (s *SlaveBarrier) Release() {
	st := s.state
	st.mu.Lock()
	st.activeSlaves--
	st.cond.Broadcast()
	st.mu.Unlock()
}

// MeetupAll blocks until every currently active slave has called
// Meetup. If no slaves are active yet, it blocks until at least one
// activates and meets up.
func (m *MasterBarrier) MeetupAll() {
	st := m.state
	st.mu.Lock()
	defer st.mu.Unlock()

	for st.activeSlaves == 0 || st.arrived < st.activeSlaves {
		st.cond.Wait()
	}
	st.arrived = 0
	st.generation++
	st.cond.Broadcast()
}

// Meetup blocks until the master has called MeetupAll and every other
// active slave has also called Meetup.
func (s *SlaveBarrier) Meetup() {
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()

	gen := st.generation
	st.arrived++
	st.cond.Broadcast()

	for st.generation == gen {
		st.cond.Wait()
	}
}
