package kentscript

import (
	"math"
	"testing"
)

func Test_FormatValue_Scalars(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Null, "None"},
		{Bool(true), "True"},
		{Bool(false), "False"},
		{Int(42), "42"},
		{Num(2.5), "2.5"},
		{Num(2), "2.0"},
		{Num(-0.125), "-0.125"},
		{Str("plain text"), "plain text"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func Test_FormatValue_NonFinite_Floats(t *testing.T) {
	if got := FormatValue(Num(math.NaN())); got != "NaN" {
		t.Fatalf("NaN: %q", got)
	}
	if got := FormatValue(Num(math.Inf(1))); got != "+Inf" {
		t.Fatalf("Inf: %q", got)
	}
}

func Test_FormatValue_Containers(t *testing.T) {
	lst := List([]Value{Int(1), Str("a"), Null, Num(3)})
	if got := FormatValue(lst); got != "[1, 'a', None, 3.0]" {
		t.Fatalf("list: %q", got)
	}

	m := NewMapObject()
	m.Set("b", Int(1))
	m.Set("a", List([]Value{Bool(false)}))
	if got := FormatValue(MapVal(m)); got != "{'b': 1, 'a': [False]}" {
		t.Fatalf("map: %q", got)
	}
}

func Test_FormatValue_Quotes_Nested_Strings(t *testing.T) {
	lst := List([]Value{Str("a\nb"), Str("it's")})
	if got := FormatValue(lst); got != `['a\nb', 'it\'s']` {
		t.Fatalf("escapes: %q", got)
	}
}

func Test_FormatValue_Map_Insertion_Order_Survives_Update(t *testing.T) {
	m := NewMapObject()
	m.Set("x", Int(1))
	m.Set("y", Int(2))
	m.Set("x", Int(3)) // update must not move the key
	if got := FormatValue(MapVal(m)); got != "{'x': 3, 'y': 2}" {
		t.Fatalf("order: %q", got)
	}
}
