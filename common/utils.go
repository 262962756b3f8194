package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// WorkGroupCount returns how many groups of the given tile size are needed to cover size
// elements, rounding up to the next whole group. A zero tile size yields zero groups.
//
// Parameters:
//   - size: the number of elements (pixels) along one axis
//   - tile: the number of elements covered by one work group along that axis
//
// Returns:
//   - uint32: ceil(size / tile)
func WorkGroupCount(size, tile uint32) uint32 {
	if tile == 0 {
		return 0
	}
	return (size + tile - 1) / tile
}

// Clamp01 clamps v to the closed range [0, 1].
func Clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// AlignUp rounds v up to the next multiple of align. align must be a power of two.
func AlignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
