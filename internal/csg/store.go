package csg

// Handle is a durable reference to a stored brush: a block index plus the
// generation serial the block had when the brush was created. Dereferencing
// a handle after the brush was destroyed fails instead of returning reused
// memory.
type Handle struct {
	index  int32
	serial uint32
}

// IsZero reports whether h is the zero handle (never issued by a store).
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// block is one arena slot. The serial advances every time the slot is
// freed, invalidating outstanding handles.
type block struct {
	serial uint32
	inUse  bool
	size   int
	brush  *Brush
}

// Store owns every brush in a growing arena of blocks. Freed blocks are
// recycled through a free list instead of being released.
type Store struct {
	blocks []block
	free   []int32
}

// NewStore returns an empty brush store.
func NewStore() *Store {
	return &Store{}
}

const blockAlign = 16

// brushSize is the allocation footprint of a brush, rounded up to the
// arena's block alignment. Free blocks are only reused for an exact size
// match, which keeps recycling cheap and predictable.
func brushSize(b *Brush) int {
	size := len(b.Planes)*16 + len(b.Verts)*12 + len(b.Polys)*12 + len(b.Indices)*2
	return (size + blockAlign - 1) &^ (blockAlign - 1)
}

// Create builds a brush from planes and stores it, reusing a freed block of
// the same size when one exists. Returns false when the planes do not form
// a valid brush; nothing is allocated in that case.
func (s *Store) Create(planes []Plane) (Handle, bool) {
	brush, ok := NewBrush(planes)
	if !ok {
		return Handle{}, false
	}
	size := brushSize(brush)

	// Linear scan for an exact-size match; free lists stay short at
	// editing scale.
	for n, idx := range s.free {
		blk := &s.blocks[idx]
		if blk.size != size {
			continue
		}
		s.free = append(s.free[:n], s.free[n+1:]...)
		blk.inUse = true
		blk.brush = brush
		return Handle{index: idx, serial: blk.serial}, true
	}

	s.blocks = append(s.blocks, block{
		serial: 1,
		inUse:  true,
		size:   size,
		brush:  brush,
	})
	idx := int32(len(s.blocks) - 1)
	return Handle{index: idx, serial: 1}, true
}

// Deref resolves a handle to its brush. Returns false for stale handles,
// whether or not the block has been reused since.
func (s *Store) Deref(h Handle) (*Brush, bool) {
	if h.index < 0 || int(h.index) >= len(s.blocks) {
		return nil, false
	}
	blk := &s.blocks[h.index]
	if !blk.inUse || blk.serial != h.serial {
		return nil, false
	}
	return blk.brush, true
}

// Destroy frees the brush behind h and recycles its block. Advancing the
// block serial invalidates every outstanding handle to it. Returns false
// when the handle is already stale.
func (s *Store) Destroy(h Handle) bool {
	if h.index < 0 || int(h.index) >= len(s.blocks) {
		return false
	}
	blk := &s.blocks[h.index]
	if !blk.inUse || blk.serial != h.serial {
		return false
	}
	blk.inUse = false
	blk.brush = nil
	blk.serial++
	s.free = append(s.free, h.index)
	return true
}

// Len returns the number of live brushes.
func (s *Store) Len() int {
	n := 0
	for i := range s.blocks {
		if s.blocks[i].inUse {
			n++
		}
	}
	return n
}
