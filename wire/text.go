package wire

// CopyText copies up to len(dst) bytes of s into dst and zero-fills the
// rest. Longer input is truncated.
func CopyText[E ~int8 | ~uint8](dst []E, s string) {
	n := min(len(s), len(dst))
	for i := range n {
		dst[i] = E(s[i])
	}

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// Text returns the bytes of src as a string, all len(src) slots included.
func Text[E ~int8 | ~uint8](src []E) string {
	b := make([]byte, len(src))
	for i, e := range src {
		b[i] = byte(e)
	}

	return string(b)
}
