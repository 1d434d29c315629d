package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size            int
		wantOffset, wantLimit int
	}{
		{page: 1, size: 8, wantOffset: 0, wantLimit: 8},
		{page: 3, size: 10, wantOffset: 20, wantLimit: 10},
		{page: 0, size: 5, wantOffset: 0, wantLimit: 5},
		{page: -2, size: 0, wantOffset: 0, wantLimit: DefaultPageSize},
		{page: 2, size: 101, wantOffset: DefaultPageSize, wantLimit: DefaultPageSize},
		{page: 2, size: 100, wantOffset: 100, wantLimit: 100},
	}

	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.wantLimit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestParseDefaults(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("x", 1))

	assert.Equal(t, 4.5, ParseFloatDefault("4.5", 0))
	assert.Equal(t, 0.0, ParseFloatDefault("abc", 0))
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(0, 8))
	assert.EqualValues(t, 1, TotalPages(8, 8))
	assert.EqualValues(t, 2, TotalPages(9, 8))
	assert.EqualValues(t, 0, TotalPages(9, 0))
}
