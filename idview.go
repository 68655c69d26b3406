package genarena

// IdView is a narrow, read-only front over a Storage for callers that
// only ever hold type-erased Ids.
type IdView struct {
	storage *Storage
}

// NewIdView returns a read-only view over s.
func NewIdView(s *Storage) IdView {
	return IdView{storage: s}
}

// GetView narrows id to T and returns the value it refers to, if any.
func GetView[T any](v IdView, id Id) (*T, bool) {
	return Get[T](v.storage, ViewOf[T](id))
}

// Contains reports whether id refers to a live value, of any type.
func (v IdView) Contains(id Id) bool {
	return v.storage.ContainsID(id)
}

// IdViewMut is IdView plus the mutating operations.
type IdViewMut struct {
	storage *Storage
}

// NewIdViewMut returns a read-write view over s.
func NewIdViewMut(s *Storage) IdViewMut {
	return IdViewMut{storage: s}
}

// PlaceView inserts value and returns its type-erased identifier.
func PlaceView[T any](v IdViewMut, value T) Id {
	return PlaceID[T](v.storage, value)
}

// RemoveView narrows id to T and takes the value out, if present.
func RemoveView[T any](v IdViewMut, id Id) (T, bool) {
	return Remove[T](v.storage, ViewOf[T](id))
}

// GetViewMut narrows id to T and returns a pointer to the value.
func GetViewMut[T any](v IdViewMut, id Id) (*T, bool) {
	return GetMut[T](v.storage, ViewOf[T](id))
}

// Contains reports whether id refers to a live value, of any type.
func (v IdViewMut) Contains(id Id) bool {
	return v.storage.ContainsID(id)
}
