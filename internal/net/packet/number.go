package packet

// The client encodes every integer as one to four "number bytes". A number
// byte carries one base-253 digit as digit+1, so the byte values 1..253 are
// meaningful, 254 stands for a zero digit, and 255 is reserved as the break
// byte that terminates embedded strings.
const (
	// Break terminates a variable-length string embedded in a payload.
	Break byte = 0xFF

	max1 = 253
	max2 = 253 * 253
	max3 = 253 * 253 * 253
)

// MaxChar, MaxShort, MaxThree and MaxInt are the largest values representable
// in each field width.
const (
	MaxChar  = max1 - 1
	MaxShort = max2 - 1
	MaxThree = max3 - 1
	MaxInt   = max3*253 - 1
)

// EncodeNumber writes v into a number-byte slice of the given width (1, 2, 3
// or 4). Values out of range for the width are truncated to the width's
// maximum.
func EncodeNumber(v int, width int) []byte {
	if v < 0 {
		v = 0
	}
	switch {
	case width == 1 && v > MaxChar:
		v = MaxChar
	case width == 2 && v > MaxShort:
		v = MaxShort
	case width == 3 && v > MaxThree:
		v = MaxThree
	case v > MaxInt:
		v = MaxInt
	}
	out := make([]byte, width)
	for i := range out {
		out[i] = 254
	}

	switch {
	case width >= 4 && v >= max3:
		out[3] = byte(v/max3 + 1)
		v %= max3
		fallthrough
	case width >= 3 && v >= max2:
		out[2] = byte(v/max2 + 1)
		v %= max2
		fallthrough
	case width >= 2 && v >= max1:
		out[1] = byte(v/max1 + 1)
		v %= max1
	}
	out[0] = byte(v + 1)
	return out
}

// DecodeNumber reads up to four number bytes and returns the value they
// carry. Missing bytes and the zero marker 254 both count as zero digits.
func DecodeNumber(b ...byte) int {
	digits := [4]int{}
	for i := 0; i < len(digits); i++ {
		if i >= len(b) || b[i] == 254 || b[i] == 0 {
			digits[i] = 1
			continue
		}
		digits[i] = int(b[i])
	}
	return (digits[3]-1)*max3 + (digits[2]-1)*max2 + (digits[1]-1)*max1 + (digits[0] - 1)
}
