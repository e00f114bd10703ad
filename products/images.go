package products

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"emporia/db"
	"emporia/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	productImageDir = "./uploads/products"
	thumbWidth      = 300
)

// UploadProductImage accepts a multipart "image" file, stores the original
// plus a 300px thumbnail, and appends the image path to the product.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if !validProductID(w, id) {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image format")
		return
	}

	if err := os.MkdirAll(productImageDir, 0755); err != nil {
		log.Println("UploadProductImage mkdir error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	name := fmt.Sprintf("%s-%d.jpg", id, time.Now().UnixMilli())
	fullPath := filepath.Join(productImageDir, name)
	thumbPath := filepath.Join(productImageDir, "thumb-"+name)

	if err := imaging.Save(img, fullPath); err != nil {
		log.Println("UploadProductImage save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
	}

	imageURL := "/uploads/products/" + name
	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productId": id},
		bson.M{
			"$push": bson.M{"images": imageURL},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Image uploaded successfully",
		"image":   imageURL,
	})
}
