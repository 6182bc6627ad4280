package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHeader(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  bool
	}{
		{
			name:  "typical header",
			cells: []string{"Process", "CPU", "Qos"},
			want:  true,
		},
		{
			name:  "all numeric is data",
			cells: []string{"1", "2", "3"},
			want:  false,
		},
		{
			name:  "single cell is a title",
			cells: []string{"OnlyOneCell"},
			want:  false,
		},
		{
			name:  "empty cell disqualifies",
			cells: []string{"Process", "", "Qos"},
			want:  false,
		},
		{
			name:  "whitespace-only cell disqualifies",
			cells: []string{"Process", "   ", "Qos"},
			want:  false,
		},
		{
			name:  "one numeric cell disqualifies",
			cells: []string{"Process", "42"},
			want:  false,
		},
		{
			name:  "numeric with thousands separator disqualifies",
			cells: []string{"Process", "1,234"},
			want:  false,
		},
		{
			name:  "two labels qualify",
			cells: []string{"Setting", "Value"},
			want:  true,
		},
		{
			name:  "no cells",
			cells: nil,
			want:  false,
		},
		{
			name:  "mixed label with digits qualifies",
			cells: []string{"CPU 0", "CPU 1"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeHeader(tt.cells))
		})
	}
}
