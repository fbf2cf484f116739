package gallery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"profile-site/pkg/models"
)

// NaturalCompare orders strings treating digit runs as numbers, so "img2" sorts before "img10".
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		ra, sizeA := utf8.DecodeRuneInString(a)
		rb, sizeB := utf8.DecodeRuneInString(b)

		if unicode.IsDigit(ra) && unicode.IsDigit(rb) {
			numA, restA := digitRun(a)
			numB, restB := digitRun(b)
			if c := compareNumbers(numA, numB); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		a, b = a[sizeA:], b[sizeB:]
	}

	return len(a) - len(b)
}

// NaturalLess reports whether a sorts before b in natural order
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalItems orders gallery items naturally by original path
func NaturalItems(a, b models.GalleryItem) int {
	return NaturalCompare(a.OriginalPath, b.OriginalPath)
}

// NaturalGroups orders group names naturally
func NaturalGroups(a, b string) int {
	return NaturalCompare(a, b)
}

func digitRun(s string) (string, string) {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		return s, ""
	}
	return s[:end], s[end:]
}

// compareNumbers compares two digit strings by value without parsing, so long runs cannot overflow
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
