package values

import "testing"

func TestAsFloat(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want float32
	}{
		{"float", Float(3.5), 3.5},
		{"integer", Integer(7), 7},
		{"string numeric", String("2.25"), 2.25},
		{"string non-numeric", String("nope"), 0},
		{"boolean true", Boolean(true), 1},
		{"boolean false", Boolean(false), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.AsFloat(); got != c.want {
				t.Errorf("AsFloat() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAsInteger(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want int32
	}{
		{"float truncates", Float(9.9), 9},
		{"integer", Integer(-4), -4},
		{"string numeric", String("42"), 42},
		{"string non-numeric", String("nope"), 0},
		{"boolean true", Boolean(true), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.AsInteger(); got != c.want {
				t.Errorf("AsInteger() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAsBoolean(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"float zero", Float(0), false},
		{"float nonzero", Float(0.1), true},
		{"integer zero", Integer(0), false},
		{"string zero", String("0"), false},
		{"string nonzero", String("1"), true},
		{"string non-numeric", String("hello"), false},
		{"boolean", Boolean(true), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.AsBoolean(); got != c.want {
				t.Errorf("AsBoolean() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAsString(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"float", Float(1.5), "1.5"},
		{"integer", Integer(42), "42"},
		{"string", String("hi"), "hi"},
		{"boolean true", Boolean(true), "true"},
		{"boolean false", Boolean(false), "false"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.AsString(); got != c.want {
				t.Errorf("AsString() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestNegate(t *testing.T) {
	if v, ok := Float(2).Negate(); !ok || v.AsFloat() != -2 {
		t.Errorf("Negate(Float(2)) = %v, %v", v, ok)
	}
	if v, ok := Integer(5).Negate(); !ok || v.AsInteger() != -5 {
		t.Errorf("Negate(Integer(5)) = %v, %v", v, ok)
	}
	if v, ok := Boolean(true).Negate(); !ok || v.AsBoolean() != false {
		t.Errorf("Negate(Boolean(true)) = %v, %v", v, ok)
	}
	if _, ok := String("x").Negate(); ok {
		t.Errorf("Negate(String) should fail")
	}
	if _, ok := Reference(Ref{}).Negate(); ok {
		t.Errorf("Negate(Reference) should fail")
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	ref := Ref{Scope: ScopeGlobal, Ident: 123, Name: "foo"}
	v := Reference(ref)
	if !v.IsReference() {
		t.Fatalf("expected IsReference() true")
	}
	if got := v.Ref(); got != ref {
		t.Errorf("Ref() = %+v, want %+v", got, ref)
	}
	// A Reference never faults its own coercion; it coerces to zero values
	// rather than panicking (dereferencing happens one layer up, in vm).
	if v.AsFloat() != 0 || v.AsInteger() != 0 || v.AsBoolean() != false || v.AsString() != "" {
		t.Errorf("Reference coercion should be zero-valued, got float=%v int=%v bool=%v string=%q",
			v.AsFloat(), v.AsInteger(), v.AsBoolean(), v.AsString())
	}
}
