// Package products is the catalog CRUD surface. Reads are public; writes are
// farmer-only and restricted to the owning farmer.
package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"uzhavan/backend"
	"uzhavan/db"
	"uzhavan/filemgr"
	"uzhavan/models"
	"uzhavan/mq"
	"uzhavan/rdx"
	"uzhavan/session"
	"uzhavan/utils"
)

const listCacheKey = "products:all"
const listCacheTTL = 2 * time.Minute

// ListProducts returns the catalog with farmer names joined in. An unfiltered
// listing is served from the Redis cache when warm. A database failure falls
// back to the built-in sample catalog so the storefront always has something
// to render.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	params := r.URL.Query()
	filter := bson.M{}

	if c := params.Get("category"); c != "" {
		filter["category"] = c
	}
	if q := params.Get("search"); q != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": q, "$options": "i"}},
			{"name_in_tamil": bson.M{"$regex": q}},
		}
	}
	if f := params.Get("farmerId"); f != "" {
		filter["farmer_id"] = f
	}
	if params.Get("inStock") == "true" {
		filter["quantity"] = bson.M{"$gt": 0}
	}

	price := bson.M{}
	if min := utils.ParseFloat(params.Get("minPrice")); min > 0 {
		price["$gte"] = min
	}
	if max := utils.ParseFloat(params.Get("maxPrice")); max > 0 {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if len(filter) == 0 {
		if cached, err := rdx.RdxGet(listCacheKey); err == nil && cached != "" {
			var products []models.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": products})
				return
			}
		}
	}

	products, err := utils.FindAndDecode[models.Product](ctx, db.ProductCollection, filter)
	if err != nil {
		log.Printf("product listing failed, serving sample catalog: %v", err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": session.SampleProducts(), "fallback": true})
		return
	}

	products, err = backend.JoinFarmerDetails(ctx, products)
	if err != nil {
		log.Printf("farmer join failed: %v", err)
	}

	if len(filter) == 0 {
		if data, err := json.Marshal(products); err == nil {
			if err := rdx.SetWithExpiry(listCacheKey, string(data), listCacheTTL); err != nil {
				log.Printf("product cache write failed: %v", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": products})
}

// GetProduct returns one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	joined, err := backend.JoinFarmerDetails(ctx, []models.Product{product})
	if err == nil && len(joined) == 1 {
		product = joined[0]
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "product": product})
}

// GetMyProducts lists the authenticated farmer's own products.
func GetMyProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	products, err := utils.FindAndDecode[models.Product](r.Context(), db.ProductCollection, bson.M{"farmer_id": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": products})
}

// CreateProduct inserts a new product for the authenticated farmer. Multipart
// form; the image part is optional.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	product, msg := parseProductForm(r)
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}
	product.ProductID = "p" + utils.GenerateID(10)
	product.FarmerID = userID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if filename, err := filemgr.SaveFormFile(r.MultipartForm, "image", filemgr.EntityProduct, false); err == nil && filename != "" {
		product.ImageURL = filemgr.PublicURL(filemgr.EntityProduct, filename)
	} else if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Insert failed")
		return
	}

	go mq.Emit(context.Background(), "product-created", mq.Event{
		EntityType: "product", Method: "POST", EntityID: product.ProductID, ActorID: userID,
	})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "product": product})
}

// EditProduct updates the caller's own product; only supplied fields change.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	productID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	if err := requireOwnership(ctx, productID, userID); err != nil {
		respondOwnership(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	update := bson.M{"updated_at": time.Now()}

	if v := r.FormValue("name"); v != "" {
		update["name"] = v
	}
	if v := r.FormValue("nameInTamil"); v != "" {
		update["name_in_tamil"] = v
	}
	if v := r.FormValue("description"); v != "" {
		update["description"] = v
	}
	if v := r.FormValue("category"); v != "" {
		if !models.Category(v).Valid() {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		update["category"] = v
	}
	if v := r.FormValue("price"); v != "" {
		price := utils.ParseFloat(v)
		if price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		update["price"] = price
	}
	if v := r.FormValue("quantity"); v != "" {
		qty := utils.ParseInt(v)
		if qty < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity cannot be negative")
			return
		}
		update["quantity"] = qty
	}
	if v := r.FormValue("unit"); v != "" {
		update["unit"] = v
	}
	if v := r.FormValue("harvestDate"); v != "" {
		update["harvest_date"] = v
	}

	if filename, err := filemgr.SaveFormFile(r.MultipartForm, "image", filemgr.EntityProduct, false); err == nil && filename != "" {
		update["image_url"] = filemgr.PublicURL(filemgr.EntityProduct, filename)
	}

	if len(update) <= 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "No valid fields to update")
		return
	}

	if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"productid": productID}, bson.M{"$set": update}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Update failed")
		return
	}

	go mq.Emit(context.Background(), "product-updated", mq.Event{
		EntityType: "product", Method: "PUT", EntityID: productID, ActorID: userID,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// DeleteProduct removes the caller's own product.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	productID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	if err := requireOwnership(ctx, productID, userID); err != nil {
		respondOwnership(w, err)
		return
	}

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil || res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	go mq.Emit(context.Background(), "product-deleted", mq.Event{
		EntityType: "product", Method: "DELETE", EntityID: productID, ActorID: userID,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func parseProductForm(r *http.Request) (models.Product, string) {
	name := r.FormValue("name")
	if name == "" {
		return models.Product{}, "Name is required"
	}
	category := models.Category(r.FormValue("category"))
	if !category.Valid() {
		return models.Product{}, "Invalid category"
	}
	price := utils.ParseFloat(r.FormValue("price"))
	if price < 0 {
		return models.Product{}, "Price cannot be negative"
	}
	qty := utils.ParseInt(r.FormValue("quantity"))
	if qty < 0 {
		return models.Product{}, "Quantity cannot be negative"
	}
	unit := r.FormValue("unit")
	if unit == "" {
		return models.Product{}, "Unit is required"
	}

	return models.Product{
		Name:        name,
		NameInTamil: r.FormValue("nameInTamil"),
		Description: r.FormValue("description"),
		Category:    category,
		Price:       price,
		Quantity:    qty,
		Unit:        unit,
		HarvestDate: r.FormValue("harvestDate"),
		Location:    r.FormValue("location"),
	}, ""
}
