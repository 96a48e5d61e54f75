package sg

import "reflect"

// flagSet is the set of bitmask types that carry dirty state.
type flagSet interface {
	~uint8 | ~uint16 | ~uint32
}

// trackField stores value in *field and raises flag when the stored value
// changes. It reports whether a change happened.
func trackField[T comparable, F flagSet](field *T, value T, flags *F, flag F) bool {
	if *field == value {
		return false
	}
	*field = value
	*flags |= flag
	return true
}

// trackFieldFunc is trackField for values that are not comparable with ==.
func trackFieldFunc[T any, F flagSet](field *T, value T, equal func(a, b T) bool, flags *F, flag F) bool {
	if equal(*field, value) {
		return false
	}
	*field = value
	*flags |= flag
	return true
}

// sameHandle reports whether two host-supplied interface values are equal.
// Values whose dynamic type cannot be compared with == never match.
func sameHandle[T any](a, b T) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if reflect.TypeOf(x) != reflect.TypeOf(y) {
		return false
	}
	if !reflect.ValueOf(x).Comparable() || !reflect.ValueOf(y).Comparable() {
		return false
	}
	return x == y
}

// modState is the single dirty bit carried by paths, ops, paints and shadows.
type modState uint8

const stateModified modState = 1

// modified is embedded by value objects that expose a single modified flag.
type modified struct {
	state modState
}

// IsModified reports whether the object changed since the flag was last cleared.
func (m *modified) IsModified() bool {
	return m.state&stateModified != 0
}

// GetAndClearModified returns the modified flag and resets it.
func (m *modified) GetAndClearModified() bool {
	was := m.IsModified()
	m.state = 0
	return was
}
