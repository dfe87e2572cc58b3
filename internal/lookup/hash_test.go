package lookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "deadbeef", Normalize("  DeadBEEF\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		hash string
		want HashKind
	}{
		{strings.Repeat("a", 32), KindMD5},
		{strings.Repeat("B", 40), KindSHA1},
		{" " + strings.Repeat("0", 64) + " ", KindSHA256},
		{strings.Repeat("f", 128), KindSHA512},
		{"deadbeef", KindUnknown},
		{strings.Repeat("g", 32), KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.hash), tt.hash)
	}
}
