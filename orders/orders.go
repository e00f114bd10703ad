package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"emporia/db"
	"emporia/idgen"
	"emporia/models"
	"emporia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder turns the caller's cart into an order. Prices, names and
// images are re-resolved from the catalog here; whatever the client thinks
// it has in the cart is never trusted for money.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ShippingAddress string `json:"shippingAddress"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var cart models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	items, total, err := snapshotItems(ctx, cart.Items)
	if err != nil {
		log.Println("CreateOrder snapshot error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	address := payload.ShippingAddress
	if address == "" {
		address = user.ShippingAddress
	}

	now := time.Now()
	order := models.Order{
		OrderID:         utils.GetUUID(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		TotalAmount:     total,
		Status:          StatusPending,
		StatusDates:     map[string]time.Time{StatusPending: now},
		StatusHistory: []models.StatusChange{{
			Status:    StatusPending,
			ChangedBy: models.Actor{UserID: userID, Username: user.Username},
			Date:      now,
			Notes:     "Order created",
		}},
		PurchaseDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Generated numbers can collide under concurrent checkouts; the unique
	// index rejects the loser and we take a fresh number.
	for attempt := 0; ; attempt++ {
		order.OrderNumber, err = idgen.NewCode(ctx, "ORD", "orderNumber", db.OrderCollection, now)
		if err != nil {
			log.Println("CreateOrder number generation error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
			return
		}
		_, err = db.OrderCollection.InsertOne(ctx, order)
		if err == nil {
			break
		}
		if mongo.IsDuplicateKeyError(err) && attempt < 3 {
			continue
		}
		log.Println("CreateOrder InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	// Clear the source cart
	if _, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}},
	); err != nil {
		log.Println("CreateOrder cart clear error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// snapshotItems resolves each cart line against the catalog and freezes
// name/price/image into order items. Lines whose product has disappeared
// are dropped.
func snapshotItems(ctx context.Context, cartItems []models.CartItem) ([]models.OrderItem, float64, error) {
	ids := make([]string, 0, len(cartItems))
	for _, it := range cartItems {
		ids = append(ids, it.ProductID)
	}

	cursor, err := db.ProductCollection.Find(ctx, bson.M{"productId": bson.M{"$in": ids}})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	var items []models.OrderItem
	var total float64
	for _, it := range cartItems {
		product, ok := byID[it.ProductID]
		if !ok {
			log.Printf("Skipping vanished product %s at checkout", it.ProductID)
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		subtotal := product.Price * float64(it.Quantity)
		items = append(items, models.OrderItem{
			ProductID:  it.ProductID,
			Name:       product.Name,
			Price:      product.Price,
			Quantity:   it.Quantity,
			Subtotal:   subtotal,
			Image:      image,
			Attributes: it.Attributes,
		})
		total += subtotal
	}
	return items, total, nil
}

// GetMyOrders lists the caller's orders, newest purchase first, with an
// optional ?status= filter.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	listOrders(ctx, w, r, filter)
}

// GetAllOrders is the admin listing with status and purchase-date range
// filters.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate != "" && endDate != "" {
		start, err1 := time.Parse("2006-01-02", startDate)
		end, err2 := time.Parse("2006-01-02", endDate)
		if err1 == nil && err2 == nil {
			filter["purchaseDate"] = bson.M{"$gte": start, "$lte": end.Add(24*time.Hour - time.Nanosecond)}
		}
	}

	listOrders(ctx, w, r, filter)
}

func listOrders(ctx context.Context, w http.ResponseWriter, r *http.Request, filter bson.M) {
	skip, limit := utils.ParsePagination(r, 10, 100)

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("listOrders count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "purchaseDate", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("listOrders find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("listOrders decode error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders": orders,
		"pagination": utils.M{
			"total": total,
			"page":  utils.Page(r),
			"limit": limit,
			"pages": utils.TotalPages(total, limit),
		},
	})
}

// GetOrder returns one order to its owner or an admin.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, ok := loadOrderForCaller(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus applies an admin status change.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	actor := models.Actor{UserID: userID, Username: utils.GetUsernameFromRequest(r)}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": ps.ByName("id")}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if err := Transition(&order, payload.Status, actor, payload.Notes, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := persistTransition(ctx, &order); err != nil {
		log.Println("UpdateOrderStatus persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// CancelOrder lets the owner (or an admin) cancel an order that has not
// shipped yet.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, ok := loadOrderForCaller(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}

	if !CanCancel(order.Status) {
		utils.RespondWithError(w, http.StatusBadRequest,
			"Orders in '"+order.Status+"' status cannot be cancelled")
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	notes := "Cancelled by customer"
	if payload.Reason != "" {
		notes = "Cancelled by customer. Reason: " + payload.Reason
	}

	userID := utils.GetUserIDFromRequest(r)
	actor := models.Actor{UserID: userID, Username: utils.GetUsernameFromRequest(r)}

	if err := Transition(&order, StatusCancelled, actor, notes, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := persistTransition(ctx, &order); err != nil {
		log.Println("CancelOrder persist error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

func persistTransition(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.UpdatedAt = now
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID},
		bson.M{"$set": bson.M{
			"status":        order.Status,
			"statusDates":   order.StatusDates,
			"statusHistory": order.StatusHistory,
			"updatedAt":     now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("order disappeared during update")
	}
	return nil
}

// loadOrderForCaller fetches an order and enforces owner-or-admin access.
// It writes the error response itself and reports success via ok.
func loadOrderForCaller(ctx context.Context, w http.ResponseWriter, r *http.Request, orderID string) (models.Order, bool) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return models.Order{}, false
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return models.Order{}, false
	}

	if order.UserID != userID && !utils.IsAdminRequest(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Not allowed to access this order")
		return models.Order{}, false
	}
	return order, true
}
