package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"emporia/db"
	"emporia/models"
	"emporia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// getOrCreateCart lazily creates the user's cart on first touch.
func getOrCreateCart(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == nil {
		return cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return cart, err
	}

	now := time.Now()
	cart = models.Cart{
		CartID:    utils.GetUUID(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.CartCollection.InsertOne(ctx, cart); err != nil {
		// Lost a race against a concurrent first touch; read theirs.
		if mongo.IsDuplicateKeyError(err) {
			err = db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
		}
		if err != nil {
			return cart, err
		}
	}
	return cart, nil
}

func saveItems(ctx context.Context, userID string, items []models.CartItem) error {
	_, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now()}},
	)
	return err
}

// projectCart joins cart lines with the current catalog. Prices and names
// are never persisted on the cart; a line whose product was deleted simply
// drops out of the view.
func projectCart(ctx context.Context, cart models.Cart) (models.CartView, error) {
	view := models.CartView{Items: []models.CartViewItem{}}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	cursor, err := db.ProductCollection.Find(ctx, bson.M{"productId": bson.M{"$in": ids}})
	if err != nil {
		return view, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return view, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		subtotal := product.Price * float64(item.Quantity)
		view.Items = append(view.Items, models.CartViewItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
			Name:       product.Name,
			Price:      product.Price,
			Image:      image,
			Subtotal:   subtotal,
		})
		view.TotalAmount += subtotal
	}
	return view, nil
}

func respondWithCart(ctx context.Context, w http.ResponseWriter, cart models.Cart, status int) {
	view, err := projectCart(ctx, cart)
	if err != nil {
		log.Println("cart projection error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	utils.RespondWithJSON(w, status, view)
}

// GetCart returns the caller's cart, creating it on first read.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		log.Println("GetCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	respondWithCart(ctx, w, cart, http.StatusOK)
}

// AddCartItem adds a line or bumps the quantity on an existing
// (product, selection) line.
func AddCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ProductID  string            `json:"productId"`
		Quantity   int               `json:"quantity"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ProductID == "" || payload.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Product ID and quantity (>= 1) are required")
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": payload.ProductID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !product.Enabled {
		utils.RespondWithError(w, http.StatusBadRequest, "Product is currently unavailable")
		return
	}

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		log.Println("AddCartItem error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	if i := findLine(cart.Items, payload.ProductID, payload.Attributes); i >= 0 {
		cart.Items[i].Quantity = ClampQuantity(cart.Items[i].Quantity + payload.Quantity)
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:  payload.ProductID,
			Quantity:   ClampQuantity(payload.Quantity),
			Attributes: payload.Attributes,
		})
	}

	if err := saveItems(ctx, userID, cart.Items); err != nil {
		log.Println("AddCartItem save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}
	respondWithCart(ctx, w, cart, http.StatusCreated)
}

// UpdateCartItem sets the quantity on the line selected by product id plus
// attribute selection.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Quantity   int               `json:"quantity"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	var cart models.Cart
	if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}

	i := findLine(cart.Items, ps.ByName("productId"), payload.Attributes)
	if i < 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item with specified attributes not found in cart")
		return
	}
	cart.Items[i].Quantity = ClampQuantity(payload.Quantity)

	if err := saveItems(ctx, userID, cart.Items); err != nil {
		log.Println("UpdateCartItem save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	respondWithCart(ctx, w, cart, http.StatusOK)
}

// RemoveCartItem deletes the line selected by product id plus attribute
// selection (attributes come in the body).
func RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Attributes map[string]string `json:"attributes"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	var cart models.Cart
	if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}

	i := findLine(cart.Items, ps.ByName("productId"), payload.Attributes)
	if i < 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Item with specified attributes not found in cart")
		return
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := saveItems(ctx, userID, cart.Items); err != nil {
		log.Println("RemoveCartItem save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	respondWithCart(ctx, w, cart, http.StatusOK)
}

// ClearCart empties the cart without deleting it.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared successfully"})
}

// MergeCart folds a guest cart snapshot into the user's cart after login.
// Product existence is verified once for the whole batch and the cart is
// persisted once at the end.
func MergeCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Items []models.GuestCartItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Items == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Items must be an array")
		return
	}

	cart, err := getOrCreateCart(ctx, userID)
	if err != nil {
		log.Println("MergeCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to merge cart")
		return
	}

	exists, err := existingProducts(ctx, payload.Items)
	if err != nil {
		log.Println("MergeCart product check error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to merge cart")
		return
	}

	cart.Items = MergeGuestItems(cart.Items, payload.Items, exists)

	if err := saveItems(ctx, userID, cart.Items); err != nil {
		log.Println("MergeCart save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to merge cart")
		return
	}
	respondWithCart(ctx, w, cart, http.StatusOK)
}

// existingProducts answers "which of these product ids still exist" with a
// single query.
func existingProducts(ctx context.Context, items []models.GuestCartItem) (map[string]bool, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			ids = append(ids, item.ProductID)
		}
	}
	exists := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return exists, nil
	}

	cursor, err := db.ProductCollection.Find(ctx,
		bson.M{"productId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		exists[p.ProductID] = true
	}
	return exists, nil
}
