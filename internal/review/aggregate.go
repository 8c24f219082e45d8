// CaterEase API | 2026
// aggregate.go

package review

import (
	"math"
)

// AggregateRatings reduces a caterer's review ratings to the stored
// summary pair: the mean rounded half away from zero, and the count.
// An empty slice yields (0, 0).
func AggregateRatings(ratings []int) (rating, count int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	mean := float64(sum) / float64(len(ratings))
	return int(math.Round(mean)), len(ratings)
}
