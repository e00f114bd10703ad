package products

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"emporia/db"
	"emporia/i18n"
	"emporia/models"
	"emporia/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func validProductID(w http.ResponseWriter, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return false
	}
	return true
}

func findOneAndUpdateAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// GetProducts lists enabled products, newest first, locale-projected.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listProducts(ctx, w, r, bson.M{"enabled": true}, 12,
		bson.D{{Key: "createdAt", Value: -1}})
}

// GetAllProducts is the admin listing, disabled products included.
func GetAllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listProducts(ctx, w, r, bson.M{}, 15,
		bson.D{{Key: "createdAt", Value: -1}})
}

var searchSorts = map[string]bson.D{
	"price-asc":  {{Key: "price", Value: 1}},
	"price-desc": {{Key: "price", Value: -1}},
	"name-asc":   {{Key: "name", Value: 1}},
	"name-desc":  {{Key: "name", Value: -1}},
	"newest":     {{Key: "createdAt", Value: -1}},
}

// SearchProducts filters the enabled catalog by free text, category and
// price range.
func SearchProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	filter := bson.M{"enabled": true}

	if text := q.Get("q"); text != "" {
		regex := bson.M{"$regex": text, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"productNumber": regex},
		}
	}
	if category := q.Get("category"); category != "" {
		filter["category"] = bson.M{"$regex": "^" + category + "$", "$options": "i"}
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil && max >= 0 {
		if gte, ok := price["$gte"].(float64); !ok || max >= gte {
			price["$lte"] = max
		} else {
			log.Printf("Invalid price range: maxPrice (%v) < minPrice (%v), ignoring maxPrice", max, gte)
		}
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	sortOption := utils.ParseSort(q.Get("sort"),
		bson.D{{Key: "createdAt", Value: -1}}, searchSorts)

	listProducts(ctx, w, r, filter, 12, sortOption)
}

func listProducts(ctx context.Context, w http.ResponseWriter, r *http.Request, filter bson.M, defaultLimit int64, sortOption bson.D) {
	skip, limit := utils.ParsePagination(r, defaultLimit, 100)

	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("listProducts count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	opts := options.Find().SetSort(sortOption).SetSkip(skip).SetLimit(limit)
	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("listProducts find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("listProducts decode error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	lang := i18n.Resolve(r)
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, i18n.ProjectProduct(p, lang))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products":      views,
		"currentPage":   utils.Page(r),
		"totalPages":    utils.TotalPages(total, limit),
		"totalProducts": total,
	})
}

// GetProduct returns one product in the requested locale.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if !validProductID(w, id) {
		return
	}

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productId": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, i18n.ProjectProduct(product, i18n.Resolve(r)))
}

// GetCategories lists the distinct categories of enabled products.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	raw, err := db.ProductCollection.Distinct(ctx, "category",
		bson.M{"enabled": true, "category": bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		log.Println("GetCategories error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)

	utils.RespondWithJSON(w, http.StatusOK, categories)
}
