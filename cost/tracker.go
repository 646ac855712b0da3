// Package cost implements the simulator's external cost observer: a
// subscriber to a mem.EventBus that derives a cycle count and unique
// memory footprint without the CPU ever being aware it exists.
package cost

import "github.com/Stasiu51/RISCMachine/mem"

const (
	fetchCostNs = 1
	hitCostNs   = 1
	missCostNs  = 80
)

type wayKey struct {
	set int
	way int
}

// Tracker accumulates cycle cost and unique-location footprints from events
// published on a mem.EventBus. It never drives the CPU; it only listens.
type Tracker struct {
	cycles uint64

	ramLocations  map[mem.Address]struct{}
	cacheLocation map[wayKey]struct{}
}

// NewTracker returns a Tracker with empty counters, not yet attached to any
// bus.
func NewTracker() *Tracker {
	return &Tracker{
		ramLocations:  make(map[mem.Address]struct{}),
		cacheLocation: make(map[wayKey]struct{}),
	}
}

func (t *Tracker) onEvent(e mem.Event) {
	switch e.Kind {
	case mem.EventFetch:
		t.cycles += fetchCostNs
	case mem.EventHit:
		t.cycles += hitCostNs
	case mem.EventMiss:
		t.cycles += missCostNs
		t.ramLocations[e.Addr] = struct{}{}
	case mem.EventWriteCache:
		t.cacheLocation[wayKey{set: e.Set, way: e.Way}] = struct{}{}
	}
}

// Report is the cost model's output contract: total modeled nanoseconds and
// the unique cache/RAM footprints touched since the tracker was attached.
type Report struct {
	TotalNs            uint64
	CacheLocationsUsed uint32
	RamLocationsUsed   uint32
}

// Report summarizes the tracker's counters as of the call.
func (t *Tracker) Report() Report {
	return Report{
		TotalNs:            t.cycles,
		CacheLocationsUsed: uint32(len(t.cacheLocation)),
		RamLocationsUsed:   uint32(len(t.ramLocations)),
	}
}

// Attach subscribes t to bus and returns a detach function. The scope that
// calls Attach owns the returned func and must defer it, guaranteeing the
// subscription is torn down even if the scope exits abnormally:
//
//	tracker, detach := cost.Attach(m.Events)
//	defer detach()
func Attach(bus *mem.EventBus) (*Tracker, func()) {
	t := NewTracker()
	token := bus.Subscribe(t.onEvent)
	return t, func() { bus.Unsubscribe(token) }
}
