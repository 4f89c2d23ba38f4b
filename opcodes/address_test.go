package opcodes

import "testing"

func TestAddressResolve(t *testing.T) {
	cases := []struct {
		name           string
		addr           Address
		postIncrement  int
		want           int
	}{
		{"absolute", Absolute(10), 3, 10},
		{"relative forward", Relative(5), 3, 8},
		{"relative backward (loop)", Relative(-4), 7, 3},
		{"relative zero is a nop-jump", Relative(0), 7, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.addr.Resolve(c.postIncrement); got != c.want {
				t.Errorf("Resolve() = %d, want %d", got, c.want)
			}
		})
	}
}
