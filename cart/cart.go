// Package cart is the HTTP surface over the session manager's cart
// operations. The cart belongs to a scope (device id or user id), not to an
// authenticated account, so guests can shop.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"uzhavan/db"
	"uzhavan/models"
	"uzhavan/session"
	"uzhavan/utils"
)

type Handler struct {
	Sessions *session.Registry
}

func NewHandler(sessions *session.Registry) *Handler {
	return &Handler{Sessions: sessions}
}

func (h *Handler) manager(w http.ResponseWriter, r *http.Request) *session.Manager {
	scope := utils.SessionScope(r)
	if scope == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Device-ID header is required")
		return nil
	}
	return h.Sessions.Get(r.Context(), scope)
}

// GetCart returns the scope's cart and its total.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"cart":    mgr.Cart(),
		"total":   utils.Round2(mgr.CartTotal()),
	})
}

// AddToCart adds quantity of a product to the cart. The product snapshot is
// looked up server-side so the client cannot set its own price.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, ok := lookupProduct(r.Context(), input.ProductID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := mgr.AddToCart(product, input.Quantity); err != nil {
		if errors.Is(err, session.ErrInvalidQuantity) {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be a positive integer")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": mgr.Cart()})
}

// UpdateQuantity sets an item's quantity absolutely; zero or below removes it.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	mgr.UpdateCartItemQuantity(ps.ByName("productId"), input.Quantity)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": mgr.Cart()})
}

// RemoveItem deletes one line from the cart; an absent item is still success.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	mgr.RemoveFromCart(ps.ByName("productId"))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": mgr.Cart()})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	mgr.ClearCart()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// GetTotal returns the cart total rounded for display.
func (h *Handler) GetTotal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "total": utils.Round2(mgr.CartTotal())})
}

// lookupProduct resolves a product id against the catalog, falling back to
// the built-in samples so carts keep working when the storefront is rendering
// the sample catalog.
func lookupProduct(ctx context.Context, productID string) (models.Product, bool) {
	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if err == nil {
		return product, true
	}

	for _, p := range session.SampleProducts() {
		if p.ProductID == productID {
			return p, true
		}
	}
	return models.Product{}, false
}
