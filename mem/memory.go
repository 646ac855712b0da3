// Package mem implements the simulator's unified memory: 2^16 word-sized
// cells backed by a 32-set, 8-way, tree-PLRU write-through/write-allocate
// cache. Every access — fetch, load, or store — is routed through the same
// cache, which is what lets self-modifying code see its own writes on the
// next fetch.
package mem

// Word is a 32-bit memory cell / register value.
type Word = uint32

// Address is a 16-bit word address. The memory has exactly 2^16 cells; there
// is no byte addressing.
type Address = uint16

const numCells = 1 << 16

// Memory is the CPU's sole view of storage: RAM plus the cache sitting in
// front of it. It owns an EventBus that a cost tracker (or anything else)
// can attach to.
type Memory struct {
	ram   [numCells]Word
	cache [numSets]cacheSet

	Events *EventBus
}

// New returns a Memory with all cells zeroed and an empty, all-invalid
// cache.
func New() *Memory {
	return &Memory{Events: NewEventBus()}
}

// LoadImage writes words directly into RAM starting at address 0, bypassing
// the cache entirely. This is how a host installs an assembled program
// before calling Run; it does not represent a simulated memory access and
// emits no events.
func (m *Memory) LoadImage(words []Word) {
	for i, w := range words {
		if i >= numCells {
			break
		}
		m.ram[i] = w
	}
}

// PeekRAM reads addr directly from RAM, bypassing the cache. Intended for
// hosts and tests inspecting state, not for simulated execution.
func (m *Memory) PeekRAM(addr Address) Word {
	return m.ram[addr]
}

// PokeRAM writes addr directly to RAM, bypassing the cache. Like LoadImage,
// this does not represent a simulated access.
func (m *Memory) PokeRAM(addr Address, value Word) {
	m.ram[addr] = value
}

// ResetCache invalidates every cache line and zeroes every set's PLRU state.
// RAM is left untouched.
func (m *Memory) ResetCache() {
	for i := range m.cache {
		m.cache[i].reset()
	}
}

// Fetch performs a cache-routed instruction fetch at addr and emits a single
// EventFetch, regardless of whether the fetch hit or missed the cache: the
// cost model only distinguishes hit/miss for LOAD/STORE traffic. A miss
// still emits EventWriteCache for the fill, after the EventFetch.
func (m *Memory) Fetch(addr Address) Word {
	value, _, filled, set, way := m.access(addr, false, 0)
	m.Events.emit(Event{Kind: EventFetch, Addr: addr})
	m.emitWriteCache(filled, set, way)
	return value
}

// Load performs a cache-routed LOAD access at addr, emitting EventHit or
// EventMiss, followed by EventWriteCache if the access filled a line.
func (m *Memory) Load(addr Address) Word {
	value, hit, filled, set, way := m.access(addr, false, 0)
	m.emitHitOrMiss(addr, hit)
	m.emitWriteCache(filled, set, way)
	return value
}

// Store performs a cache-routed, write-through STORE of value at addr,
// emitting EventHit or EventMiss, followed by EventWriteCache (a store
// always writes its line, on both hit and miss).
func (m *Memory) Store(addr Address, value Word) {
	_, hit, filled, set, way := m.access(addr, true, value)
	m.emitHitOrMiss(addr, hit)
	m.emitWriteCache(filled, set, way)
}

func (m *Memory) emitHitOrMiss(addr Address, hit bool) {
	if hit {
		m.Events.emit(Event{Kind: EventHit, Addr: addr})
		return
	}
	m.Events.emit(Event{Kind: EventMiss, Addr: addr})
}

func (m *Memory) emitWriteCache(filled bool, set, way int) {
	if filled {
		m.Events.emit(Event{Kind: EventWriteCache, Set: set, Way: way})
	}
}

// access is the single cache-routed lookup/fill path shared by Fetch, Load,
// and Store. filled reports whether a cache line was written (a fill on
// miss, or an overwrite on a hit with write=true); callers turn that into an
// EventWriteCache after their own outcome event.
//
//   - On a hit: write (if any) updates the cache line and RAM; the current
//     value is returned either way. PLRU is updated to mark the way
//     most-recently-used.
//   - On a miss: a victim way is chosen via PLRU, filled with RAM's current
//     value (read) or the stored value (write, write-allocate), and RAM is
//     written on a write.
func (m *Memory) access(addr Address, write bool, storeValue Word) (value Word, hit bool, filled bool, set int, way int) {
	set = setIndex(addr)
	tag := tagOf(addr)
	cs := &m.cache[set]

	if w, ok := cs.find(tag); ok {
		if write {
			cs.ways[w].value = storeValue
			m.ram[addr] = storeValue
			filled = true
		}
		cs.touch(w)
		return cs.ways[w].value, true, filled, set, w
	}

	w := cs.victimWay()
	if write {
		cs.ways[w] = cacheLine{valid: true, tag: tag, value: storeValue}
		m.ram[addr] = storeValue
		value = storeValue
	} else {
		value = m.ram[addr]
		cs.ways[w] = cacheLine{valid: true, tag: tag, value: value}
	}
	cs.touch(w)
	return value, false, true, set, w
}
