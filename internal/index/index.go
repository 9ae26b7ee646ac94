// Package index provides a compact optional 32-bit index, used anywhere a
// mapping needs "no name" or "no source" without spending a pointer or a
// separate boolean on it.
package index

// Index32 stores a 32-bit index where the zero value is invalid. This is a
// cheaper alternative to a pointer or (uint32, bool) pair: it's the same
// size as a bare uint32, and it round-trips correctly through the zero
// value of the struct, which matters because Mapping and Origin are stored
// by value in hot decode/encode loops.
type Index32 struct {
	flippedBits uint32
}

// Invalid is the zero value of Index32.
var Invalid = Index32{}

// Make32 returns a valid index wrapping the given value.
func Make32(value uint32) Index32 {
	return Index32{flippedBits: ^value}
}

func (i Index32) IsValid() bool {
	return i.flippedBits != 0
}

func (i Index32) GetIndex() uint32 {
	return ^i.flippedBits
}
