/*
Package genarena implements a heterogeneous, type-erased generational
arena: a single container that can hold values of any concrete type,
hand back a stable identifier for each one, and later retrieve, mutate,
or remove them with protection against stale identifiers.

We implement:

1. Buckets, one per concrete type ever placed, block-allocated and
generation-tagged so removed slots can be reused safely.

2. Typed identifiers (Tid[T]) and type-erased identifiers (Id),
convertible into each other (narrowing an Id checks its type), both
rejected once their slot is reused under a policy that advances
generations.

3. Id access views, a narrow front over Storage for callers that only
ever hold erased Ids.

# Technical Details

**Generations.**
Every cell carries a generation counter alongside its value. Placing a
value at a previously-removed index bumps the counter; an identifier
issued before the bump no longer matches after it, so using a stale
identifier fails closed instead of silently aliasing a different value.

**Policies.**
The counter's overflow behavior is pluggable per Storage: None never
advances, Blocking-N bans a cell once its N-bit counter saturates,
Wrapping-N wraps around and accepts the (very small, for large N) risk
of eventually aliasing. Blocking-32 is the default.

**Blocks.**
Cells live in fixed-capacity blocks allocated on demand; a block, once
allocated, is never resized or moved, so a pointer returned by Get
remains valid until the cell itself is removed, cleared, or reset.

**Type dispatch.**
Storage keeps one bucket per concrete type, keyed by that type's
reflect.Type. An operation for type T only ever touches the bucket
recorded under T's own key; there is no cross-type aliasing.
*/
package genarena
