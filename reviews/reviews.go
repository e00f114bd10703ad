package reviews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"emporia/db"
	"emporia/models"
	"emporia/ratings"
	"emporia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxTitleLen = 100
	maxBodyLen  = 2000
)

type reviewPayload struct {
	Rating int    `json:"rating"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// CreateReview posts a review for a product. One review per user per
// product; the verified-purchase flag is derived from delivered orders.
func CreateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	username := utils.GetUsernameFromRequest(r)

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Body = strings.TrimSpace(payload.Body)

	if payload.Rating < 1 || payload.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if payload.Body == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Review body is required")
		return
	}
	if len(payload.Body) > maxBodyLen {
		utils.RespondWithError(w, http.StatusBadRequest, "Review body must be 2000 characters or less")
		return
	}
	if len(payload.Title) > maxTitleLen {
		utils.RespondWithError(w, http.StatusBadRequest, "Review title must be 100 characters or less")
		return
	}

	count, err := db.ProductCollection.CountDocuments(ctx, bson.M{"productId": productID})
	if err != nil {
		log.Println("CreateReview product check error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating review")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	existing, err := db.ReviewsCollection.CountDocuments(ctx,
		bson.M{"productId": productID, "userId": userID})
	if err != nil {
		log.Println("CreateReview duplicate check error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating review")
		return
	}
	if existing > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this product")
		return
	}

	verified, err := hasDeliveredOrder(ctx, userID, productID)
	if err != nil {
		log.Println("CreateReview verified-purchase check error:", err)
		verified = false
	}

	now := time.Now()
	review := models.Review{
		ReviewID:           "r" + utils.GenerateRandomString(16),
		ProductID:          productID,
		UserID:             userID,
		Username:           username,
		Rating:             payload.Rating,
		Title:              payload.Title,
		Body:               payload.Body,
		IsVerifiedPurchase: verified,
		HelpfulVotes:       0,
		VotedBy:            []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this product")
			return
		}
		log.Println("CreateReview insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating review")
		return
	}

	recalcBestEffort(ctx, productID)
	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// hasDeliveredOrder reports whether the user has a delivered order that
// contains the product.
func hasDeliveredOrder(ctx context.Context, userID, productID string) (bool, error) {
	count, err := db.OrderCollection.CountDocuments(ctx, bson.M{
		"userId":          userID,
		"status":          "delivered",
		"items.productId": productID,
	})
	return count > 0, err
}

func recalcBestEffort(ctx context.Context, productID string) {
	if err := ratings.Recalculate(ctx, productID); err != nil {
		log.Printf("rating recalculation failed for product %s: %v", productID, err)
	}
}

var reviewSorts = map[string]bson.D{
	"newest":      {{Key: "createdAt", Value: -1}},
	"oldest":      {{Key: "createdAt", Value: 1}},
	"rating-high": {{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}},
	"rating-low":  {{Key: "rating", Value: 1}, {Key: "createdAt", Value: -1}},
	"helpful":     {{Key: "helpfulVotes", Value: -1}, {Key: "createdAt", Value: -1}},
}

// GetReviews lists reviews for a product. When the caller is logged in,
// each review carries whether they already voted it helpful.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)

	skip, limit := utils.ParsePagination(r, 10, 50)
	sortOption := utils.ParseSort(r.URL.Query().Get("sort"),
		reviewSorts["newest"], reviewSorts)

	filter := bson.M{"productId": productID}
	total, err := db.ReviewsCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("GetReviews count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	cursor, err := db.ReviewsCollection.Find(ctx, filter,
		options.Find().SetSort(sortOption).SetSkip(skip).SetLimit(limit))
	if err != nil {
		log.Println("GetReviews find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Review
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetReviews decode error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	views := make([]models.ReviewView, 0, len(list))
	for _, rev := range list {
		views = append(views, models.ReviewView{
			Review:           rev,
			CurrentUserVoted: userID != "" && contains(rev.VotedBy, userID),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"reviews": views,
		"pagination": utils.M{
			"total": total,
			"page":  utils.Page(r),
			"limit": limit,
			"pages": utils.TotalPages(total, limit),
		},
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// VoteHelpful marks a review as helpful for the calling user.
func VoteHelpful(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")
	userID := utils.GetUserIDFromRequest(r)

	review, ok := loadReview(ctx, w, reviewID)
	if !ok {
		return
	}
	if review.UserID == userID {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot vote on your own review")
		return
	}
	if contains(review.VotedBy, userID) {
		utils.RespondWithError(w, http.StatusConflict, "You have already voted on this review")
		return
	}

	_, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewId": reviewID},
		bson.M{
			"$inc":      bson.M{"helpfulVotes": 1},
			"$addToSet": bson.M{"votedBy": userID},
		})
	if err != nil {
		log.Println("VoteHelpful update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":      "Vote recorded",
		"helpfulVotes": review.HelpfulVotes + 1,
	})
}

// UnvoteHelpful withdraws a previously cast helpful vote.
func UnvoteHelpful(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")
	userID := utils.GetUserIDFromRequest(r)

	review, ok := loadReview(ctx, w, reviewID)
	if !ok {
		return
	}
	if !contains(review.VotedBy, userID) {
		utils.RespondWithError(w, http.StatusBadRequest, "You have not voted on this review")
		return
	}

	votes := review.HelpfulVotes - 1
	if votes < 0 {
		votes = 0
	}
	_, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewId": reviewID},
		bson.M{
			"$set":  bson.M{"helpfulVotes": votes},
			"$pull": bson.M{"votedBy": userID},
		})
	if err != nil {
		log.Println("UnvoteHelpful update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove vote")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":      "Vote removed",
		"helpfulVotes": votes,
	})
}

// DeleteReview lets the author remove their own review.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")
	userID := utils.GetUserIDFromRequest(r)

	review, ok := loadReview(ctx, w, reviewID)
	if !ok {
		return
	}
	if review.UserID != userID && !utils.IsAdminRequest(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Not allowed to delete this review")
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewId": reviewID}); err != nil {
		log.Println("DeleteReview error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	recalcBestEffort(ctx, review.ProductID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Review deleted successfully"})
}

// AdminDeleteReview removes any review regardless of author. Admin only,
// enforced by routing.
func AdminDeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")

	review, ok := loadReview(ctx, w, reviewID)
	if !ok {
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewId": reviewID}); err != nil {
		log.Println("AdminDeleteReview error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	recalcBestEffort(ctx, review.ProductID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Review deleted successfully"})
}

type sellerResponsePayload struct {
	Body string `json:"body"`
}

// RespondToReview attaches or replaces the store's response on a review.
// Admin only, enforced by routing.
func RespondToReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	reviewID := ps.ByName("reviewId")

	var payload sellerResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	payload.Body = strings.TrimSpace(payload.Body)
	if payload.Body == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Response body is required")
		return
	}

	response := models.SellerResponse{
		Body:     payload.Body,
		Date:     time.Now(),
		UserID:   utils.GetUserIDFromRequest(r),
		Username: utils.GetUsernameFromRequest(r),
	}

	res, err := db.ReviewsCollection.UpdateOne(ctx,
		bson.M{"reviewId": reviewID},
		bson.M{"$set": bson.M{"sellerResponse": response, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("RespondToReview error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save response")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":  "Response saved",
		"response": response,
	})
}

func loadReview(ctx context.Context, w http.ResponseWriter, reviewID string) (models.Review, bool) {
	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewId": reviewID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return review, false
	}
	if err != nil {
		log.Println("loadReview error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching review")
		return review, false
	}
	return review, true
}
