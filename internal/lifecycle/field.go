package lifecycle

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Field describes one updatable column of T. Name is both the snapshot key
// and the column name.
type Field[T, V any] struct {
	Name  string
	Get   func(*T) V
	Set   func(*T, V)
	Equal func(a, b V) bool
}

// Change is one requested field assignment. The zero Change means the field
// was absent from the request.
type Change[T any] struct {
	field   string
	differs func(*T) bool
	apply   func(*T)
	value   func(*T) any
}

func (c Change[T]) Field() string { return c.field }

func (c Change[T]) present() bool { return c.apply != nil }

// Set requests f = *v. A nil v leaves the field untouched.
func Set[T, V any](f Field[T, V], v *V) Change[T] {
	if v == nil {
		return Change[T]{}
	}
	want := *v
	eq := f.Equal
	if eq == nil {
		eq = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	return Change[T]{
		field:   f.Name,
		differs: func(row *T) bool { return !eq(f.Get(row), want) },
		apply:   func(row *T) { f.Set(row, want) },
		value:   func(row *T) any { return f.Get(row) },
	}
}

// SetNullable requests f = v for a nullable column. A nil v leaves the field
// untouched; there is no way to clear a column through a partial update.
func SetNullable[T, V any](f Field[T, *V], v *V) Change[T] {
	if v == nil {
		return Change[T]{}
	}
	c := Set(f, &v)
	c.value = func(row *T) any { return *f.Get(row) }
	return c
}

// Fill requests f = v only while the column is still null. It is meant for
// values derived from other changes, so they show up in the Delta.
func Fill[T, V any](f Field[T, *V], v *V) Change[T] {
	c := SetNullable(f, v)
	if !c.present() {
		return c
	}
	c.differs = func(row *T) bool { return f.Get(row) == nil }
	return c
}

// Delta maps changed field names to their new values.
type Delta map[string]any

// ComputeDelta keeps only the present changes whose value differs from row.
// An empty Delta means the update is a no-op.
func ComputeDelta[T any](row *T, changes []Change[T]) (Delta, []Change[T]) {
	delta := Delta{}
	effective := make([]Change[T], 0, len(changes))
	for _, c := range changes {
		if !c.present() || !c.differs(row) {
			continue
		}
		effective = append(effective, c)
	}
	if len(effective) == 0 {
		return delta, nil
	}

	// Values are read back after applying so they match the stored form.
	next := new(T)
	*next = *row
	for _, c := range effective {
		c.apply(next)
		delta[c.field] = c.value(next)
	}
	return delta, effective
}

// Comparers for the column types used by CRM rows.

func PtrEqual[V comparable](a, b *V) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func UUIDPtrEqual(a, b *uuid.UUID) bool { return PtrEqual(a, b) }

func TimeEqual(a, b time.Time) bool { return a.Equal(b) }

func TimePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// JSONEqual compares documents semantically, ignoring key order and whitespace.
func JSONEqual(a, b datatypes.JSON) bool {
	if bytes.Equal(a, b) {
		return true
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}

// Fields returns the changed field names in sorted order.
func (d Delta) Fields() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValueOr dereferences v, falling back to def when the request omitted it.
func ValueOr[V any](v *V, def V) V {
	if v == nil {
		return def
	}
	return *v
}
