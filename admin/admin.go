package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"emporia/db"
	"emporia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetStats reports storewide totals for the admin dashboard.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	totalOrders, err := db.OrderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("GetStats orders count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	totalRevenue, err := sumRevenue(ctx)
	if err != nil {
		log.Println("GetStats revenue error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	activeProducts, err := db.ProductCollection.CountDocuments(ctx, bson.M{"enabled": true})
	if err != nil {
		log.Println("GetStats products count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	totalUsers, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("GetStats users count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalOrders":    totalOrders,
		"totalRevenue":   totalRevenue,
		"activeProducts": activeProducts,
		"totalUsers":     totalUsers,
	})
}

// sumRevenue totals order amounts across every non-cancelled order.
func sumRevenue(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": bson.M{"$ne": "cancelled"}}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}},
	}

	cursor, err := db.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
