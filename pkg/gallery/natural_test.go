package gallery

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"file2", "file10", true},
		{"file10", "file2", false},
		{"a", "b", true},
		{"abc", "abcd", true},
		{"2024/05", "2024/10", true},
		{"img007", "img8", true},
		{"same", "same", false},
		{"x99999999999999999999999", "x100000000000000000000000", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NaturalLess(tt.a, tt.b), "%q < %q", tt.a, tt.b)
	}
}

func TestNaturalCompareSorts(t *testing.T) {
	names := []string{"ep10", "ep1", "ep2", "bonus", "ep100"}
	slices.SortFunc(names, NaturalCompare)
	assert.Equal(t, []string{"bonus", "ep1", "ep2", "ep10", "ep100"}, names)
}
