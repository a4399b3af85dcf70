package vm

// Memory is the VM's fixed-capacity byte buffer, split by a moving
// allocation boundary into a stack region growing up from 0 and a heap
// region growing down from Capacity (spec.md §4.2).
type Memory struct {
	buf      []byte
	capacity uint64
	liveSP   uint64 // high-water mark of the mapped stack prefix
	liveHP   uint64 // low-water mark of the mapped heap suffix
}

// NewMemory allocates a zeroed buffer of the given capacity. The buffer is
// allocated in full up front (this is a reference/test implementation, not
// a production lazily-mapped one); UpdateAllocations only records the live
// boundary, and nothing in this package reads it back.
func NewMemory(capacity uint64) *Memory {
	return &Memory{
		buf:      make([]byte, capacity),
		capacity: capacity,
		liveHP:   capacity,
	}
}

// Capacity returns the VM's fixed memory size.
func (m *Memory) Capacity() uint64 { return m.capacity }

// AsSlice exposes the full backing buffer read-only, for callers (tracers,
// tests) that need to inspect state without constructing a MemRange.
func (m *Memory) AsSlice() []byte { return m.buf }

func (m *Memory) sliceUnchecked(start, end uint64) []byte {
	return m.buf[start:end]
}

func (m *Memory) sliceMutUnchecked(start, end uint64) []byte {
	return m.buf[start:end]
}

// Read bounds-checks [addr, addr+length) against capacity and returns a
// read-only view. Reads are never ownership-checked.
func (m *Memory) Read(addr Word, length uint64) ([]byte, error) {
	r, err := NewMemRange(addr, length, m.capacity)
	if err != nil {
		return nil, err
	}
	return m.sliceUnchecked(r.Start(), r.End()), nil
}

// ReadBytes32 reads exactly 32 bytes at addr.
func (m *Memory) ReadBytes32(addr Word) ([32]byte, error) {
	r, err := NewConstLenRange(addr, 32, m.capacity)
	if err != nil {
		return [32]byte{}, err
	}
	return r.Read32(m), nil
}

// TryWrite bounds-checks then ownership-checks a write of bytes at addr
// under owner, copying bytes in only if both checks pass (spec.md §4.2).
func (m *Memory) TryWrite(owner OwnershipRegisters, addr Word, data []byte) error {
	r, err := NewMemRange(addr, uint64(len(data)), m.capacity)
	if err != nil {
		return err
	}
	if !owner.HasOwnership(addr, uint64(len(data))) {
		return PanicReasonMemoryOverflow.Err()
	}
	copy(r.write(m), data)
	return nil
}

// WriteUnchecked copies bytes into memory after only a bounds check,
// skipping the ownership check. Only callable by the interpreter itself
// during frame setup and initialization (spec.md §4.2).
func (m *Memory) WriteUnchecked(addr Word, data []byte) error {
	r, err := NewMemRange(addr, uint64(len(data)), m.capacity)
	if err != nil {
		return err
	}
	copy(r.write(m), data)
	return nil
}

// ForceWriteBytes is an alias of WriteUnchecked kept for readers coming
// from the Rust naming (`force_write_bytes`).
func (m *Memory) ForceWriteBytes(addr Word, data []byte) error {
	return m.WriteUnchecked(addr, data)
}

// ClearUnchecked zeroes a region without an ownership check.
func (m *Memory) ClearUnchecked(addr, length uint64) error {
	r, err := NewMemRange(addr, length, m.capacity)
	if err != nil {
		return err
	}
	s := r.write(m)
	for i := range s {
		s[i] = 0
	}
	return nil
}

// UpdateAllocations grows the mapped region so that [0, sp) and [hp,
// capacity) are considered live. Idempotent and monotonic in each
// direction; shrinking sp or growing hp back down is allowed only when
// reverting a frame (the interpreter enforces that policy, this method is
// a pure bookkeeping primitive).
func (m *Memory) UpdateAllocations(sp, hp Word) {
	m.liveSP = sp
	m.liveHP = hp
}
