package syncutil

import (
	"sync"
	"testing"
	"time"
)

func TestBarrierMeetsUpEachRound(t *testing.T) {
	master, slots := NewBarrier(3)
	slaves := make([]*SlaveBarrier, len(slots))
	for i, s := range slots {
		slaves[i] = s.Activate()
	}

	const rounds = 5
	var wg sync.WaitGroup
	counters := make([]int, len(slaves))

	for i, s := range slaves {
		wg.Add(1)
		go func(i int, s *SlaveBarrier) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				s.Meetup()
				counters[i]++
			}
		}(i, s)
	}

	done := make(chan struct{})
	go func() {
		for r := 0; r < rounds; r++ {
			master.MeetupAll()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("barrier did not complete all rounds in time")
	}
	wg.Wait()

	for i, c := range counters {
		if c != rounds {
			t.Fatalf("slave %d completed %d rounds, want %d", i, c, rounds)
		}
	}
}

func TestMeetupRendezvous(t *testing.T) {
	m := NewMeetup[int]()
	go m.Send(42)

	v := m.Recv()
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}

	if _, ok := m.TryRecv(); ok {
		t.Fatal("expected no pending value")
	}
}
