package models

import "time"

type SellerResponse struct {
	Body     string    `json:"body" bson:"body"`
	Date     time.Time `json:"date" bson:"date"`
	UserID   string    `json:"userId" bson:"userId"`
	Username string    `json:"username,omitempty" bson:"username,omitempty"`
}

type Review struct {
	ReviewID  string `json:"reviewId" bson:"reviewId"`
	ProductID string `json:"productId" bson:"productId"`
	UserID    string `json:"userId" bson:"userId"`
	// Denormalized for display
	Username string `json:"username" bson:"username"`
	Rating   int    `json:"rating" bson:"rating"`
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Body     string `json:"body" bson:"body"`

	IsVerifiedPurchase bool     `json:"isVerifiedPurchase" bson:"isVerifiedPurchase"`
	HelpfulVotes       int      `json:"helpfulVotes" bson:"helpfulVotes"`
	VotedBy            []string `json:"-" bson:"votedBy"`

	SellerResponse *SellerResponse `json:"sellerResponse,omitempty" bson:"sellerResponse,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ReviewView is a Review plus the per-viewer vote flag, with votedBy kept
// out of the payload.
type ReviewView struct {
	Review
	CurrentUserVoted bool `json:"currentUserVoted"`
}
