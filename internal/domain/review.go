package domain

import "time"

// Review is a user's rating of a product. At most one review exists per
// (user, product) pair; a repeated submission updates the existing review.
type Review struct {
	ID        string `json:"id"`
	UserID    string `json:"user"`
	ProductID string `json:"product"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the aggregate a product carries over its reviews.
type RatingSummary struct {
	Ratings      int
	NumOfReviews int
}

// SummarizeRatings computes a product's rating aggregate: the floored
// arithmetic mean of all review ratings, and the review count. An empty
// review set yields zeroes.
func SummarizeRatings(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return RatingSummary{
		Ratings:      total / len(reviews),
		NumOfReviews: len(reviews),
	}
}
