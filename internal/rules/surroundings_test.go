package rules

import "testing"

func TestSurroundings_BitContract(t *testing.T) {
	// bit3=North, bit2=East, bit1=West, bit0=South; a set bit is a wall.
	cases := []struct {
		openN, openE, openW, openS bool
		want                       Surroundings
	}{
		{true, true, true, true, 0b0000},
		{false, true, true, true, 0b1000},
		{true, false, true, true, 0b0100},
		{true, true, false, true, 0b0010},
		{true, true, true, false, 0b0001},
		{false, false, false, false, 0b1111},
		{false, true, false, true, 0b1010},
	}
	for _, c := range cases {
		got := EncodeSurroundings(c.openN, c.openE, c.openW, c.openS)
		if got != c.want {
			t.Fatalf("encode(%v,%v,%v,%v) = %04b, want %04b",
				c.openN, c.openE, c.openW, c.openS, got, c.want)
		}
	}
}

func TestSurroundings_DecodeInverse(t *testing.T) {
	for code := Surroundings(0); code < NumSurroundings; code++ {
		n, e, w, s := code.Decode()
		if back := EncodeSurroundings(n, e, w, s); back != code {
			t.Fatalf("decode/encode roundtrip: %04b -> %04b", code, back)
		}
	}
}

func TestSurroundings_String(t *testing.T) {
	cases := map[Surroundings]string{
		0b0000: "xxxx",
		0b1111: "NEWS",
		0b1010: "NxWx",
		0b0101: "xExS",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Fatalf("%04b.String() = %q, want %q", code, got, want)
		}
	}
}

func TestDirection_Deltas(t *testing.T) {
	// Row 0 is the top, so North decreases the row.
	check := func(d Direction, wantRow, wantCol int) {
		t.Helper()
		r, c := d.Delta()
		if r != wantRow || c != wantCol {
			t.Fatalf("%s delta = (%d,%d), want (%d,%d)", d, r, c, wantRow, wantCol)
		}
	}
	check(North, -1, 0)
	check(East, 0, 1)
	check(West, 0, -1)
	check(South, 1, 0)

	if r, c := ActStay.Delta(); r != 0 || c != 0 {
		t.Fatalf("stay delta = (%d,%d), want (0,0)", r, c)
	}
}
