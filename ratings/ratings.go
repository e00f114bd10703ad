package ratings

import (
	"context"
	"log"
	"math"
	"strconv"
	"time"

	"emporia/db"

	"go.mongodb.org/mongo-driver/bson"
)

// Averages are held at one decimal place everywhere.
func roundAverage(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// Summarize computes the aggregate rating fields from a list of star
// ratings. Every bucket 1..5 is present even when empty; an empty input
// yields zeros.
func Summarize(stars []int) (average float64, count int, distribution map[string]int) {
	distribution = map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}

	sum := 0
	for _, s := range stars {
		if s < 1 || s > 5 {
			continue
		}
		distribution[strconv.Itoa(s)]++
		sum += s
		count++
	}
	if count == 0 {
		return 0, 0, distribution
	}
	return roundAverage(float64(sum) / float64(count)), count, distribution
}

// Recalculate recomputes a product's average rating, review count and star
// distribution from its reviews and writes all three in one update. It is
// called best effort after review writes; a failure is logged by callers and
// never rolls back the triggering write.
func Recalculate(ctx context.Context, productID string) error {
	pipeline := []bson.M{
		{"$match": bson.M{"productId": productID}},
		{"$group": bson.M{
			"_id":           "$productId",
			"averageRating": bson.M{"$avg": "$rating"},
			"reviewCount":   bson.M{"$sum": 1},
			"star1":         starBucket(1),
			"star2":         starBucket(2),
			"star3":         starBucket(3),
			"star4":         starBucket(4),
			"star5":         starBucket(5),
		}},
	}

	cursor, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var stats []struct {
		AverageRating float64 `bson:"averageRating"`
		ReviewCount   int     `bson:"reviewCount"`
		Star1         int     `bson:"star1"`
		Star2         int     `bson:"star2"`
		Star3         int     `bson:"star3"`
		Star4         int     `bson:"star4"`
		Star5         int     `bson:"star5"`
	}
	if err := cursor.All(ctx, &stats); err != nil {
		return err
	}

	update := bson.M{
		"averageRating":      0.0,
		"reviewCount":        0,
		"ratingDistribution": map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		"updatedAt":          time.Now(),
	}
	if len(stats) > 0 {
		s := stats[0]
		update["averageRating"] = roundAverage(s.AverageRating)
		update["reviewCount"] = s.ReviewCount
		update["ratingDistribution"] = map[string]int{
			"1": s.Star1, "2": s.Star2, "3": s.Star3, "4": s.Star4, "5": s.Star5,
		}
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Unknown product; nothing to update, and the caller's write
		// should not fail because of it.
		log.Printf("Rating recalculation skipped, no product %s", productID)
	}
	return nil
}

func starBucket(star int) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$rating", star}}, 1, 0,
	}}}
}
