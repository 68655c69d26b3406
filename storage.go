package genarena

import (
	"reflect"
)

const defaultBlockCapacity = 1024

// Options configures a Storage at construction. Zero-valued fields take
// the defaults documented on each field, so Options{} gives the same
// Storage as New.
type Options struct {
	// BlockCapacity is the number of cells per block. Must be positive.
	// Defaults to 1024.
	BlockCapacity int

	// Policy governs cell generation reuse semantics. Defaults to
	// PolicyBlocking32.
	Policy Policy

	// Logf, if set, receives a line for each bucket creation, block
	// growth, ban, and Reset/Clear/ShrinkToFit boundary. Mirrors the
	// ambient logging hook used throughout this codebase's lineage: a
	// plain format callback, no logging library.
	Logf func(format string, args ...any)
}

// Storage is a heterogeneous, type-erased generational arena: one
// bucket per concrete type ever placed into it, dispatched by runtime
// type identity.
type Storage struct {
	buckets       map[reflect.Type]typeErasedBucket
	blockCapacity int
	policy        Policy
	logf          func(format string, args ...any)
}

// New returns a Storage with the default block capacity (1024) and the
// default generation policy (Blocking-32).
func New() *Storage {
	return NewWithOptions(Options{})
}

// NewWithBlockCapacity returns a Storage using the default policy and
// the given block capacity.
func NewWithBlockCapacity(capacity int) *Storage {
	return NewWithOptions(Options{BlockCapacity: capacity})
}

// NewWithPolicy returns a Storage using the default block capacity and
// the given generation policy.
func NewWithPolicy(p Policy) *Storage {
	return NewWithOptions(Options{Policy: p})
}

// NewWithPolicyAndCapacity returns a Storage using the given policy and
// block capacity.
func NewWithPolicyAndCapacity(p Policy, capacity int) *Storage {
	return NewWithOptions(Options{Policy: p, BlockCapacity: capacity})
}

// NewWithOptions returns a Storage configured from opt. A zero
// BlockCapacity is filled in with the default (1024); any negative
// value is a programmer error.
func NewWithOptions(opt Options) *Storage {
	if opt.BlockCapacity == 0 {
		opt.BlockCapacity = defaultBlockCapacity
	}
	ensure(opt.BlockCapacity > 0, "genarena: BlockCapacity must be positive")
	return &Storage{
		buckets:       make(map[reflect.Type]typeErasedBucket),
		blockCapacity: opt.BlockCapacity,
		policy:        opt.Policy,
		logf:          opt.Logf,
	}
}

func (s *Storage) log(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

// bucketFor returns the existing bucket for T, creating and recording
// one the first time T is placed.
func bucketFor[T any](s *Storage) *bucket[T] {
	typ := reflect.TypeFor[T]()
	if existing, ok := s.buckets[typ]; ok {
		return existing.(*bucket[T])
	}
	b := newBucket[T](s.policy)
	s.buckets[typ] = b
	s.log("genarena: created bucket for %s", typ)
	return b
}

// Place inserts value and returns a typed identifier for it.
func Place[T any](s *Storage, value T) Tid[T] {
	b := bucketFor[T](s)
	blocks := len(b.blocks)
	index, gen := b.place(s.blockCapacity, value)
	if len(b.blocks) > blocks {
		s.log("genarena: bucket for %s grew to %d blocks", reflect.TypeFor[T](), len(b.blocks))
	}
	if gen.IsExhausted() {
		s.log("genarena: cell %d of %s banned after this placement", index, reflect.TypeFor[T]())
	}
	return Tid[T]{index: index, gen: gen}
}

// PlaceID inserts value and returns a type-erased identifier for it.
func PlaceID[T any](s *Storage, value T) Id {
	return Place[T](s, value).ToID()
}

// Remove takes the value referred to by view out of s, returning it
// and true on success. It fails closed (zero value, false) on type
// mismatch, out-of-range index, an already-removed or banned cell, or
// a stale generation witness.
func Remove[T any](s *Storage, view AsTid[T]) (T, bool) {
	var zero T
	tid, ok := view.resolve()
	if !ok {
		return zero, false
	}
	typ := reflect.TypeFor[T]()
	erased, ok := s.buckets[typ]
	if !ok {
		return zero, false
	}
	return erased.(*bucket[T]).remove(s.blockCapacity, tid.index, tid.gen)
}

// Erase removes the value referred to by id in place, discarding it,
// without requiring the caller to know its concrete type.
func (s *Storage) Erase(id Id) bool {
	erased, ok := s.buckets[id.typ]
	if !ok {
		return false
	}
	return erased.(eraser).eraseAt(s.blockCapacity, id.index, id.gen)
}

// eraser lets Erase drop a value at an index without knowing T; every
// *bucket[T] implements it via eraseAt below.
type eraser interface {
	eraseAt(capacity, index int, witness Gen) bool
}

func (b *bucket[T]) eraseAt(capacity, index int, witness Gen) bool {
	_, ok := b.remove(capacity, index, witness)
	return ok
}

// Get returns a pointer to the value referred to by view, or (nil,
// false) if it isn't present. The pointer remains valid until the next
// operation on s that removes, clears, resets, or drops the cell.
func Get[T any](s *Storage, view AsTid[T]) (*T, bool) {
	tid, ok := view.resolve()
	if !ok {
		return nil, false
	}
	typ := reflect.TypeFor[T]()
	erased, ok := s.buckets[typ]
	if !ok {
		return nil, false
	}
	return erased.(*bucket[T]).get(s.blockCapacity, tid.index, tid.gen)
}

// GetMut is Get, named for call sites that intend to mutate through
// the returned pointer; Go has no borrow checker to distinguish the
// two, so the caller is responsible for not holding either across a
// mutating call on s.
func GetMut[T any](s *Storage, view AsTid[T]) (*T, bool) {
	return Get[T](s, view)
}

// Contains reports whether view refers to a live value of type T whose
// generation witness matches.
func Contains[T any](s *Storage, view AsTid[T]) bool {
	tid, ok := view.resolve()
	if !ok {
		return false
	}
	typ := reflect.TypeFor[T]()
	erased, ok := s.buckets[typ]
	if !ok {
		return false
	}
	return erased.(*bucket[T]).containsWitness(s.blockCapacity, tid.index, tid.gen)
}

// ContainsID is Contains for a type-erased identifier.
func (s *Storage) ContainsID(id Id) bool {
	erased, ok := s.buckets[id.typ]
	if !ok {
		return false
	}
	return erased.containsWitness(s.blockCapacity, id.index, id.gen)
}

// ShrinkToFit deallocates trailing empty blocks across every bucket.
func (s *Storage) ShrinkToFit() {
	for typ, b := range s.buckets {
		b.shrinkToFit(s.blockCapacity)
		s.log("genarena: shrunk bucket for %s", typ)
	}
}

// Clear drops every live value across every bucket but keeps their
// generations intact, so reused indices keep advancing rather than
// restarting.
func (s *Storage) Clear() {
	for _, b := range s.buckets {
		b.clear(s.blockCapacity)
	}
	s.log("genarena: cleared storage")
}

// Reset drops every live value and additionally resets every cell's
// generation to its policy default, lifting any bans.
func (s *Storage) Reset() {
	for _, b := range s.buckets {
		b.reset(s.blockCapacity)
	}
	s.log("genarena: reset storage")
}

// Close drops every live value and releases every bucket's blocks.
// Storage carries no finalizer; the caller must call Close explicitly.
func (s *Storage) Close() {
	for typ, b := range s.buckets {
		b.drop(s.blockCapacity)
		delete(s.buckets, typ)
	}
}

