// storage_test.go
package letterbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Storage_DefaultsToZero(t *testing.T) {
	s := NewStorage()

	v, err := s.Get('q')
	require.NoError(t, err)
	assert.Equal(t, Num(0), v)

	// The read materializes the slot.
	snap := s.Snapshot()
	assert.Equal(t, Num(0), snap['q'])
	assert.Len(t, snap, 1)
}

func Test_Storage_SetGetRoundTrip(t *testing.T) {
	s := NewStorage()

	require.NoError(t, s.Set('a', Num(4.4)))
	require.NoError(t, s.Set('b', Text("The text")))

	a, err := s.Get('a')
	require.NoError(t, err)
	assert.Equal(t, Num(4.4), a)

	b, err := s.Get('b')
	require.NoError(t, err)
	assert.Equal(t, Text("The text"), b)

	// Overwrite switches the shape freely.
	require.NoError(t, s.Set('a', Text("now text")))
	a, err = s.Get('a')
	require.NoError(t, err)
	assert.Equal(t, Text("now text"), a)
}

func Test_Storage_CopyIsolation(t *testing.T) {
	s := NewStorage()

	require.NoError(t, s.Set('a', Num(1)))
	require.NoError(t, s.Copy('a', 'b'))
	require.NoError(t, s.Set('a', Num(2)))

	b, err := s.Get('b')
	require.NoError(t, err)
	assert.Equal(t, Num(1), b, "copy must clone, not share")

	// Copying an unwritten slot copies the zero default.
	require.NoError(t, s.Copy('y', 'z'))
	z, err := s.Get('z')
	require.NoError(t, err)
	assert.Equal(t, Num(0), z)
}

func Test_Storage_ResetAndResetAll(t *testing.T) {
	s := NewStorage()

	require.NoError(t, s.Set('a', Num(5)))
	require.NoError(t, s.Reset('a'))
	a, err := s.Get('a')
	require.NoError(t, err)
	assert.Equal(t, Num(0), a)

	require.NoError(t, s.Set('a', Num(1)))
	require.NoError(t, s.Set('b', Text("x")))
	s.ResetAll()

	for _, name := range []byte{'a', 'b'} {
		v, err := s.Get(name)
		require.NoError(t, err)
		assert.Equal(t, Num(0), v)
	}
}

func Test_Storage_RejectsInvalidNames(t *testing.T) {
	s := NewStorage()

	for _, name := range []byte{'A', '1', '!', 0} {
		_, err := s.Get(name)
		require.Error(t, err)

		var re *RuntimeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, ErrInvalidVariable, re.Kind)
		assert.Zero(t, re.Line, "store errors carry no position")

		assert.Error(t, s.Set(name, Num(1)))
		assert.Error(t, s.Reset(name))
	}
}

func Test_Storage_AsBool(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Set('a', Num(0)))
	require.NoError(t, s.Set('b', Num(-2.5)))
	require.NoError(t, s.Set('c', Text("")))
	require.NoError(t, s.Set('d', Text("x")))

	cases := []struct {
		name byte
		want bool
	}{
		{'a', false},
		{'b', true},
		{'c', true}, // text is always true, even empty
		{'d', true},
		{'u', false}, // unwritten reads as Num(0)
	}
	for _, c := range cases {
		got, err := s.AsBool(c.name)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "var %c", c.name)
	}
}

func Test_Storage_IsVarName(t *testing.T) {
	for c := byte('a'); c <= 'z'; c++ {
		assert.True(t, IsVarName(c))
	}
	for _, c := range []byte{'A', 'Z', '`', '{', ' ', 0} {
		assert.False(t, IsVarName(c))
	}
	assert.Len(t, validVars, 26)
}
