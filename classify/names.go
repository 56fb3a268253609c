package classify

import "strings"

const sizeSuffix = "size"

// IsSizeName reports whether a parameter named name is conventionally a
// length: text_size, key_size, size. The match is case-sensitive.
func IsSizeName(name string) bool {
	return strings.HasSuffix(name, sizeSuffix)
}

// SizePrefix returns the buffer name stem a size parameter refers to:
// "text" for text_size. Bare names such as size or hashsize have no prefix.
func SizePrefix(name string) string {
	if stem, ok := strings.CutSuffix(name, "_"+sizeSuffix); ok {
		return stem
	}
	return ""
}

// MatchesPrefix reports whether a buffer named buffer is measured by a size
// with the given prefix: the buffer is the prefix itself or ends with
// "_"+prefix (cipher_text and plain_text both match text).
func MatchesPrefix(buffer, prefix string) bool {
	if prefix == "" {
		return false
	}
	return buffer == prefix || strings.HasSuffix(buffer, "_"+prefix)
}
