// Package naming holds the one normalization function shared by the
// spreadsheet side and the filesystem side of the matcher.
package naming

import "strings"

// ConversionMarker is appended to a photo's name when the phone's native
// HEIC image is converted to a standard format during export.
const ConversionMarker = "HEIC"

// SplitExt splits name at its final dot. The extension keeps the dot.
// A name without a dot has an empty extension.
func SplitExt(name string) (base, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// Normalize maps a raw name from either source to the key used for matching.
// It drops the extension and then a single trailing ConversionMarker.
// Nothing else is touched: no case folding, no trimming.
func Normalize(name string) string {
	base, _ := SplitExt(name)
	return strings.TrimSuffix(base, ConversionMarker)
}
