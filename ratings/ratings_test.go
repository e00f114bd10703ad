package ratings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	average, count, distribution := Summarize(nil)
	assert.Zero(t, average)
	assert.Zero(t, count)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}, distribution)
}

func TestSummarize(t *testing.T) {
	average, count, distribution := Summarize([]int{4, 2})
	assert.Equal(t, 3.0, average)
	assert.Equal(t, 2, count)
	assert.Equal(t, map[string]int{"1": 0, "2": 1, "3": 0, "4": 1, "5": 0}, distribution)
}

func TestSummarizeRoundsToOneDecimal(t *testing.T) {
	// 5+4+4 = 13 / 3 = 4.333...
	average, _, _ := Summarize([]int{5, 4, 4})
	assert.Equal(t, 4.3, average)

	// 5+5+4 = 14 / 3 = 4.666...
	average, _, _ = Summarize([]int{5, 5, 4})
	assert.Equal(t, 4.7, average)
}

func TestSummarizeIgnoresOutOfRange(t *testing.T) {
	average, count, distribution := Summarize([]int{0, 6, -3, 5})
	assert.Equal(t, 5.0, average)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, distribution["5"])
}
