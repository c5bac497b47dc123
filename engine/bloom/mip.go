package bloom

// MipSizes returns the size of each bloom level for a source of w by h. Level 0 is half the
// source and each following level halves its predecessor, rounding down and never going below 1.
//
// Parameters:
//   - w: the source width
//   - h: the source height
//   - k: the number of levels
//
// Returns:
//   - [][2]uint32: k (width, height) pairs, or nil if any argument is not positive
func MipSizes(w, h, k int) [][2]uint32 {
	if w < 1 || h < 1 || k < 1 {
		return nil
	}
	sizes := make([][2]uint32, k)
	for i := range sizes {
		w = max(w/2, 1)
		h = max(h/2, 1)
		sizes[i] = [2]uint32{uint32(w), uint32(h)}
	}
	return sizes
}
