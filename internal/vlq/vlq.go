// Package vlq implements the base64 variable-length-quantity encoding used
// by the source map "mappings" grammar: 6 bits per digit, LSB-first, bit
// 5 is the continuation flag, and the sign of the whole value is the LSB
// of the final sextet.
//
// This is lifted directly from esbuild's internal/sourcemap.encodeVLQ /
// DecodeVLQ, generalized into byte classification primitives so the
// mapping decoder (internal/sourcemap/decode.go) can drive its own state
// machine over a mix of digit/comma/semicolon/ignored bytes instead of
// decoding one whole number at a time the way esbuild's flat "mappings"
// parser does.
package vlq

// Alphabet is the base64 variable-length-quantity digit set.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

type ByteKind uint8

const (
	KindIgnore ByteKind = iota
	KindDigit
	KindComma
	KindSemicolon
)

var classify [256]ByteKind
var digitValue [256]int32

func init() {
	for i := range classify {
		classify[i] = KindIgnore
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		classify[Alphabet[i]] = KindDigit
		digitValue[Alphabet[i]] = int32(i)
	}
	classify[','] = KindComma
	classify[';'] = KindSemicolon
}

// Classify reports how a single mappings-string byte should be handled.
func Classify(b byte) ByteKind {
	return classify[b]
}

// DigitValue returns the raw 6-bit value of a digit byte (0..63). Only
// meaningful when Classify(b) == KindDigit.
func DigitValue(b byte) int32 {
	return digitValue[b]
}

// HasContinuation reports whether bit 5 (the continuation flag) is set on a
// raw digit value.
func HasContinuation(digit int32) bool {
	return digit&32 != 0
}

// SignDecode recovers a signed integer from an accumulated VLQ value: the
// low bit is the sign, the rest is the magnitude.
func SignDecode(vlq int) int {
	value := vlq >> 1
	if vlq&1 != 0 {
		return -value
	}
	return value
}

// Encode appends the VLQ encoding of value to dst and returns the result.
func Encode(dst []byte, value int) []byte {
	var v int
	if value < 0 {
		v = ((-value) << 1) | 1
	} else {
		v = value << 1
	}

	for {
		digit := v & 31
		v >>= 5
		if v != 0 {
			digit |= 32
		}
		dst = append(dst, Alphabet[digit])
		if v == 0 {
			break
		}
	}

	return dst
}
