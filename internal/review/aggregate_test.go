// CaterEase API | 2026
// aggregate_test.go

package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRatings(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		rating  int
		count   int
	}{
		{"empty", nil, 0, 0},
		{"single", []int{5}, 5, 1},
		{"exact mean", []int{4, 4, 4}, 4, 3},
		{"rounds up", []int{5, 3, 4}, 4, 3},
		{"rounds half up", []int{4, 5}, 5, 2},
		{"rounds down", []int{5, 3, 4, 1}, 3, 4},
		{"all ones", []int{1, 1, 1, 1}, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, count := AggregateRatings(tt.ratings)
			assert.Equal(t, tt.rating, rating)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestAggregateRatingsRecompute(t *testing.T) {
	ratings := []int{5, 3, 4}
	rating, count := AggregateRatings(ratings)
	assert.Equal(t, 4, rating)
	assert.Equal(t, 3, count)

	// a 2 drags the mean to 3.5, which rounds half away from zero
	ratings = append(ratings, 2)
	rating, count = AggregateRatings(ratings)
	assert.Equal(t, 4, rating)
	assert.Equal(t, 4, count)

	// one more pushes it below the half
	ratings = append(ratings, 2)
	rating, count = AggregateRatings(ratings)
	assert.Equal(t, 3, rating)
	assert.Equal(t, 5, count)
}
