// Package utf8codec implements the small UTF-8 codec the compiler and
// executor share: decoding the byte width of a code point at a given
// offset, encoding a code point back to 1-4 bytes, and parsing fixed-width
// hex digit runs for \x, \u and \U escapes.
//
// This is deliberately not the stdlib unicode/utf8 package. The engine's
// decode rule is lenient by design (an invalid leading byte, or a leading
// byte whose continuation bytes run off the end of the buffer, decodes as
// width 1 rather than as a replacement rune) so that CharClass matching can
// advance one raw byte at a time over non-UTF-8 input instead of getting
// stuck. See DecodeWidth.
package utf8codec

// DecodeWidth returns the number of bytes occupied by the UTF-8 sequence
// starting at s[pos]. It never reads past len(s): if the leading byte
// claims a multi-byte sequence that would run off the end of s, or whose
// continuation bytes are not of the form 10xxxxxx, it returns 1 so callers
// can still advance over malformed or truncated input one byte at a time.
//
// pos must be a valid index into s.
func DecodeWidth(s []byte, pos int) int {
	c := s[pos]
	var size int
	switch {
	case c&0x80 == 0x00:
		size = 1
	case c&0xe0 == 0xc0:
		size = 2
	case c&0xf0 == 0xe0:
		size = 3
	case c&0xf8 == 0xf0:
		size = 4
	default:
		return 1
	}

	if pos+size > len(s) {
		return 1
	}
	for i := 1; i < size; i++ {
		if s[pos+i]&0xc0 != 0x80 {
			return 1
		}
	}
	return size
}

// Encode appends the UTF-8 encoding of value to dst and returns the
// extended slice along with the number of bytes written. It returns 0
// written bytes (and dst unchanged) if value is out of the representable
// range (> 0x1FFFFF), mirroring the original library's \U overflow check.
func Encode(dst []byte, value rune) ([]byte, int) {
	v := uint32(value)
	switch {
	case v < 0x80:
		return append(dst, byte(v)), 1
	case v < 0x800:
		return append(dst,
			0xc0|byte((v&0x7c0)>>6),
			0x80|byte(v&0x3f),
		), 2
	case v < 0x10000:
		return append(dst,
			0xe0|byte((v&0xf000)>>12),
			0x80|byte((v&0x0fc0)>>6),
			0x80|byte(v&0x003f),
		), 3
	case v < 0x200000:
		return append(dst,
			0xf0|byte((v&0x1c0000)>>18),
			0x80|byte((v&0x03f000)>>12),
			0x80|byte((v&0x000fc0)>>6),
			0x80|byte(v&0x00003f),
		), 4
	default:
		return dst, 0
	}
}

// HexToInt parses exactly n hex digits starting at s[0] and returns their
// value. ok is false if s is shorter than n or contains a non-hex-digit
// byte within the first n bytes.
func HexToInt(s []byte, n int) (value uint32, ok bool) {
	if len(s) < n {
		return 0, false
	}
	for i := 0; i < n; i++ {
		c := s[i]
		var b uint32
		switch {
		case c >= '0' && c <= '9':
			b = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			b = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			b = uint32(c-'A') + 10
		default:
			return 0, false
		}
		value = value<<4 | b
	}
	return value, true
}
