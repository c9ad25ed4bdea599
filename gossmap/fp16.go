package gossmap

import "math"

// fp16 is a 16-bit compressed non-negative number used for approximate
// channel capacities (in satoshis). It stores an 11-bit mantissa and a
// 5-bit power-of-ten exponent, giving roughly three significant
// figures across the full uint64 range. The value 0 is reserved as a
// sentinel by the capacity cache (see CapacityCache) and is never
// produced by compress for a genuinely nonzero capacity, by rounding
// up: the smallest representable nonzero value is 1.
const (
	fp16MantissaBits = 11
	fp16MantissaMax  = (1 << fp16MantissaBits) - 1
	fp16ExponentMax  = (1 << (16 - fp16MantissaBits)) - 1
)

// compressFP16 converts a satoshi amount into its fp16 representation.
// roundUp selects round-up-on-loss, used for capacities so the fast
// path never understates available liquidity (the decompressed value
// is never below the input), like the source's u64_to_fp16(..., true).
func compressFP16(v uint64, roundUp bool) uint16 {
	if v == 0 {
		return 0
	}

	exp := 0
	mantissa := v
	for mantissa > fp16MantissaMax {
		rem := mantissa % 10
		mantissa /= 10
		if roundUp && rem != 0 {
			mantissa++
		}
		exp++
		if exp > fp16ExponentMax {
			return uint16(fp16ExponentMax)<<fp16MantissaBits | fp16MantissaMax
		}
	}

	return uint16(exp)<<fp16MantissaBits | uint16(mantissa)
}

// decompressFP16 expands a compressed value back into a satoshi
// amount. The result is monotonic with, but generally not equal to,
// the original input.
func decompressFP16(v uint16) uint64 {
	mantissa := uint64(v & fp16MantissaMax)
	exp := uint64(v >> fp16MantissaBits)
	result := mantissa
	for i := uint64(0); i < exp; i++ {
		if result > math.MaxUint64/10 {
			return math.MaxUint64
		}
		result *= 10
	}
	return result
}
