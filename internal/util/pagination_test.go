package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		page, size string
		want       Page
	}{
		{"", "", Page{}},
		{"1", "", Page{Offset: 0, Limit: DefaultPageSize}},
		{"3", "10", Page{Offset: 20, Limit: 10}},
		{"", "5", Page{Offset: 0, Limit: 5}},
		{"2", "500", Page{Offset: MaxPageSize, Limit: MaxPageSize}},
	}
	for _, tt := range tests {
		got, err := ParsePage(tt.page, tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "page=%q size=%q", tt.page, tt.size)
	}

	for _, bad := range [][2]string{{"0", ""}, {"x", "10"}, {"1", "-2"}, {"9223372036854775807", "100"}} {
		_, err := ParsePage(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrBadPage)
	}
}
