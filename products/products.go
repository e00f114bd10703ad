package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"emporia/db"
	"emporia/idgen"
	"emporia/models"
	"emporia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type productPayload struct {
	Name         string                        `json:"name"`
	Description  string                        `json:"description"`
	Category     string                        `json:"category"`
	Price        float64                       `json:"price"`
	Images       []string                      `json:"images"`
	Attributes   map[string][]string           `json:"attributes"`
	Translations map[string]models.Translation `json:"translations"`
	Enabled      *bool                         `json:"enabled"`
}

func validateProductPayload(w http.ResponseWriter, p productPayload) bool {
	if p.Name == "" || p.Price == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and price are required")
		return false
	}
	if p.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid price value")
		return false
	}
	return true
}

// CreateProduct inserts a new product with a generated product number and a
// unique slug. Admin only.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !validateProductPayload(w, payload) {
		return
	}

	now := time.Now()

	slug := idgen.Slugify(payload.Name)
	if slug == "" {
		slug = "product-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	slug = idgen.EnsureUniqueSlug(slug, func(candidate string) bool {
		n, err := db.ProductCollection.CountDocuments(ctx, bson.M{"slug": candidate})
		return err == nil && n > 0
	})

	enabled := true
	if payload.Enabled != nil {
		enabled = *payload.Enabled
	}
	images := payload.Images
	if images == nil {
		images = []string{}
	}
	attributes := payload.Attributes
	if attributes == nil {
		attributes = map[string][]string{}
	}

	product := models.Product{
		ProductID:          utils.GetUUID(),
		Name:               payload.Name,
		Description:        payload.Description,
		Category:           payload.Category,
		Price:              payload.Price,
		Enabled:            enabled,
		Images:             images,
		Slug:               slug,
		Attributes:         attributes,
		Translations:       payload.Translations,
		RatingDistribution: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	for attempt := 0; ; attempt++ {
		var err error
		product.ProductNumber, err = idgen.NewCode(ctx, "PROD", "productNumber", db.ProductCollection, now)
		if err != nil {
			log.Println("CreateProduct number generation error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Error creating product")
			return
		}
		_, err = db.ProductCollection.InsertOne(ctx, product)
		if err == nil {
			break
		}
		// Concurrent creators can race onto the same number; take a fresh
		// one and retry.
		if mongo.IsDuplicateKeyError(err) && attempt < 3 {
			continue
		}
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "productNumber must be unique")
			return
		}
		log.Println("CreateProduct InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces the editable fields. Admin only; the product
// number and slug never change on edit.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if !validProductID(w, id) {
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !validateProductPayload(w, payload) {
		return
	}

	set := bson.M{
		"name":        payload.Name,
		"description": payload.Description,
		"category":    payload.Category,
		"price":       payload.Price,
		"updatedAt":   time.Now(),
	}
	if payload.Images != nil {
		set["images"] = payload.Images
	}
	if payload.Attributes != nil {
		set["attributes"] = payload.Attributes
	}
	if payload.Translations != nil {
		set["translations"] = payload.Translations
	}
	if payload.Enabled != nil {
		set["enabled"] = *payload.Enabled
	}

	var product models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productId": id},
		bson.M{"$set": set},
		findOneAndUpdateAfter(),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProductStatus toggles the enabled flag. Admin only.
func UpdateProductStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if !validProductID(w, id) {
		return
	}

	var payload struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Enabled == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Enabled status must be a boolean")
		return
	}

	var product models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productId": id},
		bson.M{"$set": bson.M{"enabled": *payload.Enabled, "updatedAt": time.Now()}},
		findOneAndUpdateAfter(),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("UpdateProductStatus error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating product status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and cascades its reviews. Admin only.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if !validProductID(w, id) {
		return
	}

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productId": id})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if _, err := db.ReviewsCollection.DeleteMany(ctx, bson.M{"productId": id}); err != nil {
		log.Println("DeleteProduct review cascade error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":   "Product deleted successfully",
		"productId": id,
	})
}
