package genarena

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeterogeneousRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()

	id0 := Place[uint32](s, 0)
	id1 := Place[uint8](s, 1)
	id2 := Place[string](s, "2")

	if got, ok := Get[uint32](s, id0); !ok || *got != 0 {
		t.Fatalf("Get[uint32](id0) = %v, %v; want 0, true", got, ok)
	}
	if got, ok := Get[uint8](s, id1); !ok || *got != 1 {
		t.Fatalf("Get[uint8](id1) = %v, %v; want 1, true", got, ok)
	}
	if got, ok := Get[string](s, id2); !ok || *got != "2" {
		t.Fatalf("Get[string](id2) = %v, %v; want \"2\", true", got, ok)
	}

	if got, ok := GetMut[string](s, id2); !ok {
		t.Fatalf("GetMut[string](id2) failed")
	} else {
		*got = "str"
	}
	if got, ok := Get[string](s, id2); !ok || *got != "str" {
		t.Fatalf("Get[string](id2) after mutation = %v, %v; want \"str\", true", got, ok)
	}

	v, ok := Remove[uint32](s, id0)
	if !ok || v != 0 {
		t.Fatalf("Remove[uint32](id0) = %v, %v; want 0, true", v, ok)
	}
	if _, ok := Remove[uint32](s, id0); ok {
		t.Fatalf("second Remove[uint32](id0) should fail")
	}
}

func TestWrongTypeNarrowing(t *testing.T) {
	s := New()
	defer s.Close()

	id := PlaceID[uint64](s, 7)

	if _, ok := Get[int64](s, ViewOf[int64](id)); ok {
		t.Fatalf("Get[int64] on a uint64 id should fail")
	}
	got, ok := Get[uint64](s, ViewOf[uint64](id))
	if !ok || *got != 7 {
		t.Fatalf("Get[uint64] = %v, %v; want 7, true", got, ok)
	}
}

func TestBlockGrowthAndShrink(t *testing.T) {
	s := NewWithBlockCapacity(4)
	defer s.Close()

	var ids []Tid[uint32]
	for i := uint32(0); i < 10; i++ {
		ids = append(ids, Place(s, i))
	}

	stats := s.Stats()[reflect.TypeFor[uint32]()]
	if stats.Blocks != 3 {
		t.Fatalf("blocks after 10 placements at capacity 4 = %d; want 3", stats.Blocks)
	}

	s.ShrinkToFit()
	stats = s.Stats()[reflect.TypeFor[uint32]()]
	if stats.Blocks != 3 {
		t.Fatalf("blocks after shrinking a full bucket = %d; want 3", stats.Blocks)
	}

	for i := len(ids) - 1; i >= 1; i-- {
		Remove[uint32](s, ids[i])
	}
	s.ShrinkToFit()
	stats = s.Stats()[reflect.TypeFor[uint32]()]
	if stats.Blocks != 1 {
		t.Fatalf("blocks after thinning to one survivor = %d; want 1", stats.Blocks)
	}

	if Contains[uint32](s, ids[len(ids)-1]) {
		t.Fatalf("a removed, now-shrunk id must not be contained")
	}
}

func TestBlockingExhaustionBansSlot(t *testing.T) {
	s := NewWithPolicyAndCapacity(PolicyBlocking32, 8)
	defer s.Close()

	first := Place[int](s, 1)
	bucketForTest := bucketFor[int](s)
	bucketForTest.remove(8, first.index, first.gen)
	bucketForTest.cellAt(8, first.index).gen = Gen{policy: PolicyBlocking32, v: gen128{lo: 0xFFFFFFFE}}

	second := Place[int](s, 2)
	if second.index != first.index {
		t.Fatalf("expected the freed slot to be reused one final time before saturating")
	}
	if !second.gen.IsExhausted() {
		t.Fatalf("placing at the saturation boundary must ban the cell")
	}

	third := Place[int](s, 3)
	if third.index == first.index {
		t.Fatalf("placement must skip a banned index")
	}

	s.Reset()
	fourth := Place[int](s, 4)
	if fourth.index != 0 {
		t.Fatalf("after Reset, placement should restart at index 0, got %d", fourth.index)
	}
}

func TestResetVsClearGenerations(t *testing.T) {
	cleared := New()
	defer cleared.Close()
	a := Place[int](cleared, 1)
	cleared.Clear()
	b := Place[int](cleared, 2)
	if b.index != a.index {
		t.Fatalf("expected the first slot to be reused after Clear")
	}
	if b.gen == a.gen {
		t.Fatalf("Clear must keep generations advancing across reused indices")
	}

	reset := New()
	defer reset.Close()
	c := Place[int](reset, 1)
	reset.Reset()
	d := Place[int](reset, 2)
	if d.index != c.index {
		t.Fatalf("expected the first slot to be reused after Reset")
	}
	if d.gen != c.gen {
		t.Fatalf("Reset must restore the default generation, got %+v want %+v", d.gen, c.gen)
	}
}

func TestABAProtection(t *testing.T) {
	s := New()
	defer s.Close()

	id1 := Place[string](s, "A")
	if v, ok := Remove[string](s, id1); !ok || v != "A" {
		t.Fatalf("Remove(id1) = %v, %v; want A, true", v, ok)
	}
	id2 := Place[string](s, "B")
	if id2.index != id1.index {
		t.Fatalf("expected the slot to be reused; id1.index=%d id2.index=%d", id1.index, id2.index)
	}

	if s.ContainsID(id1.ToID()) {
		t.Fatalf("stale id1 must not be reported as contained after reuse")
	}
	if _, ok := Get[string](s, id1); ok {
		t.Fatalf("stale id1 must not resolve after reuse")
	}
	got, ok := Get[string](s, id2)
	if !ok || *got != "B" {
		t.Fatalf("Get(id2) = %v, %v; want B, true", got, ok)
	}
}

func TestIdViews(t *testing.T) {
	s := New()
	defer s.Close()
	mut := NewIdViewMut(s)
	view := NewIdView(s)

	id := PlaceView(mut, 100)
	if !view.Contains(id) {
		t.Fatalf("freshly placed id should be contained")
	}
	got, ok := GetView[int](view, id)
	if !ok || *got != 100 {
		t.Fatalf("GetView = %v, %v; want 100, true", got, ok)
	}

	v, ok := RemoveView[int](mut, id)
	if !ok || v != 100 {
		t.Fatalf("RemoveView = %v, %v; want 100, true", v, ok)
	}
	if view.Contains(id) {
		t.Fatalf("removed id should no longer be contained")
	}
}

func TestStatsDiff(t *testing.T) {
	s := New()
	defer s.Close()
	Place[int](s, 1)
	id := Place[int](s, 2)
	Remove[int](s, id)

	got := s.Stats()[reflect.TypeFor[int]()]
	want := BucketStats{Len: 1, CellCount: 2, Blocks: 1, Removed: 1, Banned: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Stats mismatch (-want +got):\n%s", diff)
	}
}
