package visitor

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Browser is what the storefront knows about the requesting browser
type Browser struct {
	UserAgent      string `json:"userAgent"`
	Language       string `json:"language"`
	ScreenWidth    int    `json:"screenWidth"`
	ScreenHeight   int    `json:"screenHeight"`
	TimezoneOffset int    `json:"timezoneOffset"`
	Timezone       string `json:"timezone"`
	CanvasData     string `json:"canvasData"`
}

// Fingerprint folds the browser traits into a 32-bit hash rendered in base 36.
// It is an analytics signal only; collisions are expected.
func Fingerprint(b Browser) string {
	source := strings.Join([]string{
		b.UserAgent,
		b.Language,
		strconv.Itoa(b.ScreenWidth) + "x" + strconv.Itoa(b.ScreenHeight),
		strconv.Itoa(b.TimezoneOffset),
		b.CanvasData,
	}, "|")

	var hash int32
	for _, c := range utf16.Encode([]rune(source)) {
		hash = (hash << 5) - hash + int32(c)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}
