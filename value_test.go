// value_test.go
package letterbox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Val_Render(t *testing.T) {
	cases := []struct {
		v    Val
		want string
	}{
		{Num(4), "4"},
		{Num(4.4), "4.4"},
		{Num(-0.5), "-0.5"},
		{Num(0), "0"},
		{Num(1e21), "1000000000000000000000"}, // plain decimal, never exponent
		{Text("The text"), "The text"},
		{Text(""), ""},
		{Text("4.400"), "4.400"}, // text renders verbatim
		{Val{}, "0"},             // the zero Val acts as Num(0)
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.Render())
	}

	assert.Equal(t, "NaN", Num(math.NaN()).Render())
}

func Test_Val_Truthy(t *testing.T) {
	assert.False(t, Num(0).Truthy())
	assert.False(t, Val{}.Truthy())
	assert.True(t, Num(1).Truthy())
	assert.True(t, Num(-0.001).Truthy())
	assert.True(t, Text("").Truthy(), "text is always true")
	assert.True(t, Text("0").Truthy())
}

func Test_Val_Accessors(t *testing.T) {
	f, ok := Num(4.4).Number()
	assert.True(t, ok)
	assert.Equal(t, 4.4, f)

	_, ok = Num(4.4).Text()
	assert.False(t, ok)

	s, ok := Text("x").Text()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Text("x").Number()
	assert.False(t, ok)

	f, ok = (Val{}).Number()
	assert.True(t, ok)
	assert.Zero(t, f)
}

func Test_Val_String(t *testing.T) {
	assert.Equal(t, "4.4", Num(4.4).String())
	assert.Equal(t, `"The text"`, Text("The text").String())
}
