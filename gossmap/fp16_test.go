package gossmap

import "testing"

func TestFP16ZeroSentinel(t *testing.T) {
	if compressFP16(0, true) != 0 {
		t.Fatalf("compressing zero must stay zero (cache sentinel)")
	}
}

func TestFP16RoundTripSmall(t *testing.T) {
	for _, v := range []uint64{1, 42, 2047} {
		got := decompressFP16(compressFP16(v, true))
		if got != v {
			t.Fatalf("small value %d should round-trip exactly, got %d", v, got)
		}
	}
}

func TestFP16NeverCollapsesNonzeroToZero(t *testing.T) {
	for _, v := range []uint64{1, 7, 999, 1_000_000, 21_000_000 * 100_000_000} {
		c := compressFP16(v, true)
		if c == 0 {
			t.Fatalf("nonzero input %d compressed to the zero sentinel", v)
		}
	}
}

func TestFP16Monotonic(t *testing.T) {
	prev := uint64(0)
	for _, v := range []uint64{1, 10, 100, 1_000, 1_000_000, 1_000_000_000} {
		got := decompressFP16(compressFP16(v, true))
		if got < prev {
			t.Fatalf("decompression not monotonic: %d decoded below previous %d", v, prev)
		}
		prev = got
	}
}

func TestFP16RoundsUpLossy(t *testing.T) {
	// 123456 loses precision (mantissa caps at 2047); rounding up must
	// never understate capacity.
	got := decompressFP16(compressFP16(123456, true))
	if got < 123456 {
		t.Fatalf("round-up compression understated capacity: got %d, want >= 123456", got)
	}
}
