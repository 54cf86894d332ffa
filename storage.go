// storage.go: the variable store.
//
// Programs address exactly 26 slots, named by the lowercase letters 'a'
// through 'z'. A slot that was never written reads as Num(0); the read
// materializes the slot, so a later snapshot will show it. Copy clones
// the value, so mutating the source afterwards never affects the
// destination.
package letterbox

import "fmt"

// validVars lists every addressable slot name.
const validVars = "abcdefghijklmnopqrstuvwxyz"

// IsVarName reports whether c names a storage slot.
func IsVarName(c byte) bool { return c >= 'a' && c <= 'z' }

// Storage maps slot names to values. The zero Storage is not usable;
// call NewStorage. Storage is not safe for concurrent use.
type Storage struct {
	data map[byte]Val
}

// NewStorage returns an empty store.
func NewStorage() *Storage {
	return &Storage{data: make(map[byte]Val, len(validVars))}
}

func invalidVar(name byte) error {
	return &RuntimeError{
		Kind: ErrInvalidVariable,
		Msg:  fmt.Sprintf("invalid variable name %q (want a..z)", name),
	}
}

// Get reads a slot, materializing Num(0) if it was never written.
func (s *Storage) Get(name byte) (Val, error) {
	if !IsVarName(name) {
		return Val{}, invalidVar(name)
	}
	v, ok := s.data[name]
	if !ok {
		v = Num(0)
		s.data[name] = v
	}
	return v, nil
}

// Set writes a slot, overwriting any previous value.
func (s *Storage) Set(name byte, v Val) error {
	if !IsVarName(name) {
		return invalidVar(name)
	}
	s.data[name] = v
	return nil
}

// Reset clears one slot back to the never-written state.
func (s *Storage) Reset(name byte) error {
	if !IsVarName(name) {
		return invalidVar(name)
	}
	delete(s.data, name)
	return nil
}

// ResetAll clears every slot.
func (s *Storage) ResetAll() {
	clear(s.data)
}

// Copy clones the value of from into to. The source keeps its value.
func (s *Storage) Copy(from, to byte) error {
	v, err := s.Get(from)
	if err != nil {
		return err
	}
	return s.Set(to, v)
}

// AsBool reads a slot and reports its truthiness per Val.Truthy.
func (s *Storage) AsBool(name byte) (bool, error) {
	v, err := s.Get(name)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

// Snapshot returns a copy of every slot written (or materialized) so far.
func (s *Storage) Snapshot() map[byte]Val {
	out := make(map[byte]Val, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
