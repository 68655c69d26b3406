package genarena

// noIndex marks an empty free list.
const noIndex = -1

// cell is the in-place representation of one slot in a bucket: a
// generation witness plus, while live, a value of the bucket's
// concrete type. While removed, next threads the bucket's intrusive
// free list instead of holding live data.
type cell[T any] struct {
	gen     Gen
	removed bool
	next    int
	data    T
}

// bucket is a block-allocated, generation-tagged vector of cells for
// one concrete type. It never relocates a live cell: blocks are
// appended, never resized or reordered, and a cell's address is stable
// until it is removed, cleared, reset, or dropped.
type bucket[T any] struct {
	blocks    [][]cell[T]
	len       int
	cellCount int
	freeHead  int
	policy    Policy
}

func newBucket[T any](policy Policy) *bucket[T] {
	return &bucket[T]{freeHead: noIndex, policy: policy}
}

func (b *bucket[T]) cellAt(capacity, index int) *cell[T] {
	return &b.blocks[index/capacity][index%capacity]
}

func (b *bucket[T]) ensureBlock(capacity, index int) {
	for index/capacity >= len(b.blocks) {
		b.blocks = append(b.blocks, make([]cell[T], capacity))
	}
}

// unlinkFree removes index from the free list if present. Only needed
// when place's forward scan steps onto a removed cell that isn't the
// list's current head.
func (b *bucket[T]) unlinkFree(capacity, index int) {
	if b.freeHead == index {
		b.freeHead = b.cellAt(capacity, index).next
		return
	}
	for cur := b.freeHead; cur != noIndex; {
		c := b.cellAt(capacity, cur)
		if c.next == index {
			c.next = b.cellAt(capacity, index).next
			return
		}
		cur = c.next
	}
}

// place reserves a slot, writes value into it, and returns the index
// and the generation actually stored there (the witness a caller's id
// must match to use the slot later).
func (b *bucket[T]) place(capacity int, value T) (int, Gen) {
	index := b.freeHead
	if index != noIndex {
		b.freeHead = b.cellAt(capacity, index).next
	} else {
		index = b.len
	}

	for {
		b.ensureBlock(capacity, index)
		exists := index < b.cellCount
		if exists {
			c := b.cellAt(capacity, index)
			if c.removed {
				b.unlinkFree(capacity, index)
			}
			if c.gen.IsExhausted() {
				if index == b.len {
					b.len++
				}
				index++
				continue
			}
		}

		var currentGen Gen
		if exists {
			currentGen = b.cellAt(capacity, index).gen
		} else {
			currentGen = zeroGen(b.policy)
		}

		newGen := currentGen.Next()
		*b.cellAt(capacity, index) = cell[T]{gen: newGen, data: value, next: noIndex}
		if index == b.len {
			b.len++
		}
		if b.len > b.cellCount {
			b.cellCount = b.len
		}
		return index, newGen
	}
}

func (b *bucket[T]) remove(capacity, index int, witness Gen) (T, bool) {
	var zero T
	if index >= b.len {
		return zero, false
	}
	c := b.cellAt(capacity, index)
	if c.removed || c.gen.IsExhausted() || c.gen != witness {
		return zero, false
	}
	data := c.data
	c.data = zero
	c.removed = true
	c.next = b.freeHead
	b.freeHead = index
	if index == b.len-1 {
		b.len--
	}
	return data, true
}

func (b *bucket[T]) get(capacity, index int, witness Gen) (*T, bool) {
	if index >= b.len {
		return nil, false
	}
	c := b.cellAt(capacity, index)
	if c.removed || c.gen.IsExhausted() || c.gen != witness {
		return nil, false
	}
	return &c.data, true
}

func (b *bucket[T]) containsWitness(capacity, index int, witness Gen) bool {
	if index >= b.len {
		return false
	}
	c := b.cellAt(capacity, index)
	return !c.removed && !c.gen.IsExhausted() && c.gen == witness
}

func (b *bucket[T]) shrinkToFit(capacity int) {
	// Free-list entries at or beyond len stop being tracked once
	// cellCount falls to len; unlink them before their blocks go away.
	prev := noIndex
	for cur := b.freeHead; cur != noIndex; {
		next := b.cellAt(capacity, cur).next
		if cur < b.len {
			prev = cur
		} else if prev == noIndex {
			b.freeHead = next
		} else {
			b.cellAt(capacity, prev).next = next
		}
		cur = next
	}

	keep := (b.len + capacity - 1) / capacity
	for i := keep; i < len(b.blocks); i++ {
		b.blocks[i] = nil
	}
	if keep < len(b.blocks) {
		b.blocks = b.blocks[:keep]
	}
	b.cellCount = b.len
}

func (b *bucket[T]) clear(capacity int) bool {
	if b.len == 0 {
		return false
	}
	var zero T
	for i := b.len; i > 0; {
		i--
		c := b.cellAt(capacity, i)
		if c.removed || c.gen.IsExhausted() {
			continue
		}
		c.data = zero
	}
	b.len = 0
	b.freeHead = noIndex
	return true
}

func (b *bucket[T]) reset(capacity int) {
	var zero T
	for i := b.cellCount; i > 0; {
		i--
		c := b.cellAt(capacity, i)
		if !c.removed && !c.gen.IsExhausted() {
			c.data = zero
		}
		c.gen = zeroGen(b.policy)
		c.removed = false
		c.next = noIndex
	}
	b.len = 0
	b.freeHead = noIndex
}

func (b *bucket[T]) drop(capacity int) {
	b.clear(capacity)
	b.blocks = nil
	b.cellCount = 0
	b.freeHead = noIndex
}

func (b *bucket[T]) stats(capacity int) BucketStats {
	removed := 0
	for i := b.freeHead; i != noIndex; {
		removed++
		i = b.cellAt(capacity, i).next
	}
	banned := 0
	for i := 0; i < b.len; i++ {
		c := b.cellAt(capacity, i)
		if !c.removed && c.gen.IsExhausted() {
			banned++
		}
	}
	return BucketStats{
		Len:       b.len,
		CellCount: b.cellCount,
		Blocks:    len(b.blocks),
		Removed:   removed,
		Banned:    banned,
	}
}

// typeErasedBucket is the narrow surface Storage uses to manage a
// bucket without knowing its concrete element type. The type-specific
// operations (place, get, remove) are reached through a type assertion
// back to *bucket[T] in the Storage-level generic functions.
type typeErasedBucket interface {
	shrinkToFit(capacity int)
	clear(capacity int) bool
	reset(capacity int)
	drop(capacity int)
	containsWitness(capacity, index int, witness Gen) bool
	stats(capacity int) BucketStats
}

// BucketStats summarizes one bucket's occupancy, grounded on the kind
// of per-table snapshot edb.TableStats reports.
type BucketStats struct {
	Len       int // exclusive upper bound on indices currently in use
	CellCount int // cells whose memory has ever been initialized
	Blocks    int // allocated blocks
	Removed   int // indices currently reusable
	Banned    int // indices permanently exhausted
}
