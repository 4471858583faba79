// Package bitmath implements the tick <-> bitmap-word conversions from
// spec.md §4.1, ported from original_source/src/v3_base/bitmap_math.rs.
package bitmath

import "github.com/holiman/uint256"

// NormalizeTick divides tick by spacing using Euclidean (floor) division,
// matching I24::div_euclid in the Rust source.
func NormalizeTick(tick int64, spacing int64) int64 {
	return floorDiv(tick, spacing)
}

// WordIndex returns the bitmap word position that holds normalizedTick,
// clamped to the int16 range [-32768, 32767] (the normalized ticks of
// valid ticks fall well within it for any tick_spacing).
func WordIndex(normalizedTick int64) int16 {
	pos := floorDiv(normalizedTick, 256)
	if pos > 32767 {
		return 32767
	}
	if pos < -32768 {
		return -32768
	}
	return int16(pos)
}

// ExtractTicksFromBitmap scans a 256-bit word and returns the tick values
// (already multiplied by spacing) of every set bit.
func ExtractTicksFromBitmap(word *uint256.Int, wordIdx int16, spacing int64) []int64 {
	if word == nil || word.IsZero() {
		return nil
	}
	ticks := make([]int64, 0, 8)
	for bit := 0; bit < 256; bit++ {
		if word.Bit(uint(bit)) {
			normalized := int64(wordIdx)*256 + int64(bit)
			ticks = append(ticks, normalized*spacing)
		}
	}
	return ticks
}

// NextLeft scans a word for the nearest set bit strictly below start,
// returning (bitIndex, true) or (0, false) if none is set.
func NextLeft(word *uint256.Int, start int16) (int, bool) {
	idx := clamp(start)
	for idx > 0 {
		idx--
		if word.Bit(uint(idx)) {
			return idx, true
		}
	}
	return 0, false
}

// NextRight scans a word for the nearest set bit strictly above start,
// returning (bitIndex, true) or (0, false) if none is set.
func NextRight(word *uint256.Int, start int16) (int, bool) {
	idx := clamp(start)
	for idx < 255 {
		idx++
		if word.Bit(uint(idx)) {
			return idx, true
		}
	}
	return 0, false
}

func clamp(v int16) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

// floorDiv implements floor division for signed integers. For the positive
// divisors used here (tick spacing, 256) this matches Rust's div_euclid:
// the remainder is non-negative.
func floorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		q--
	}
	return q
}
