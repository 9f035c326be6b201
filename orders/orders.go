// Package orders handles checkout and fulfillment. Orders are created from
// the session cart, stock is decremented at checkout, and status moves
// through the pending→confirmed→shipped→delivered chain (cancellable before
// shipping).
package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"uzhavan/db"
	"uzhavan/models"
	"uzhavan/session"
	"uzhavan/stream"
	"uzhavan/utils"
)

type Handler struct {
	Sessions *session.Registry
}

func NewHandler(sessions *session.Registry) *Handler {
	return &Handler{Sessions: sessions}
}

// CreateOrder checks out the caller's cart. Stock is decremented per line
// with a guard against overselling; if any line cannot be satisfied the whole
// checkout is rejected and already-decremented lines are restored. On success
// the cart is cleared.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Login required to place an order")
		return
	}

	scope := utils.SessionScope(r)
	if scope == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Device-ID header is required")
		return
	}

	var input struct {
		PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
		DeliveryAddress string               `json:"deliveryAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !input.PaymentMethod.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Payment method must be cod or online")
		return
	}
	if input.DeliveryAddress == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Delivery address is required")
		return
	}

	mgr := h.Sessions.Get(ctx, scope)
	cart := mgr.Cart()
	if len(cart) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	decremented, err := reserveStock(ctx, cart)
	if err != nil {
		releaseStock(ctx, decremented)
		utils.RespondWithError(w, http.StatusConflict, "Some items are no longer available")
		return
	}

	items := make([]models.OrderItem, 0, len(cart))
	var total float64
	for _, line := range cart {
		items = append(items, models.OrderItem{
			ProductID:   line.Product.ProductID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
		total += line.Subtotal()
	}

	order := models.Order{
		OrderID:         "o" + utils.GenerateID(12),
		CustomerID:      userID,
		OrderDate:       time.Now(),
		Items:           items,
		TotalAmount:     utils.Round2(total),
		Status:          models.OrderPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		DeliveryAddress: input.DeliveryAddress,
		UpdatedAt:       time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		releaseStock(ctx, decremented)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	mgr.ClearCart()
	go stream.EmitOrderCreated(context.Background(), order)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "order": order})
}

// GetMyOrders lists the caller's orders, newest first. A fetch failure yields
// an empty list rather than an error page.
func (h *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	opts := options.Find().SetSort(bson.M{"order_date": -1})
	orders, err := utils.FindAndDecode[models.Order](r.Context(), db.OrderCollection, bson.M{"customer_id": userID}, opts)
	if err != nil {
		log.Printf("order listing for %s failed: %v", userID, err)
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": orders})
}

// GetIncomingOrders lists orders containing the authenticated farmer's
// products.
func (h *Handler) GetIncomingOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	mine, err := utils.FindAndDecode[models.Product](ctx, db.ProductCollection, bson.M{"farmer_id": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if len(mine) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": []models.Order{}})
		return
	}

	ids := make([]string, 0, len(mine))
	for _, p := range mine {
		ids = append(ids, p.ProductID)
	}

	opts := options.Find().SetSort(bson.M{"order_date": -1})
	orders, err := utils.FindAndDecode[models.Order](ctx, db.OrderCollection,
		bson.M{"items.product_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		log.Printf("incoming order listing for %s failed: %v", userID, err)
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "orders": orders})
}

// UpdateStatus advances an order along the fulfillment chain. Illegal jumps
// are rejected.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	orderID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	// Customers may only cancel their own orders; farmers drive the rest of
	// the chain.
	if utils.GetRoleFromRequest(r) != "farmer" {
		if order.CustomerID != userID || input.Status != models.OrderCancelled {
			utils.RespondWithError(w, http.StatusForbidden, "Not allowed")
			return
		}
	}

	if !order.Status.CanTransition(input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest,
			"Cannot move order from "+string(order.Status)+" to "+string(input.Status))
		return
	}

	_, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	if input.Status == models.OrderCancelled {
		releaseStock(ctx, orderLines(order))
	}

	order.Status = input.Status
	go stream.EmitOrderStatus(context.Background(), order)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": input.Status})
}

// MarkPaid records payment completion for an order.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	orderID := ps.ByName("id")
	if utils.GetUserIDFromRequest(r) == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user")
		return
	}

	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID, "payment_status": models.PaymentPending},
		bson.M{"$set": bson.M{"payment_status": models.PaymentCompleted, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update payment")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order not found or already paid")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

type stockLine struct {
	productID string
	quantity  int
}

func orderLines(order models.Order) []stockLine {
	lines := make([]stockLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, stockLine{productID: it.ProductID, quantity: it.Quantity})
	}
	return lines
}

// reserveStock decrements stock per cart line, guarding against overselling.
// It returns the lines it managed to decrement so a failed checkout can be
// rolled back.
func reserveStock(ctx context.Context, cart []models.CartItem) ([]stockLine, error) {
	done := make([]stockLine, 0, len(cart))
	for _, line := range cart {
		res, err := db.ProductCollection.UpdateOne(ctx,
			bson.M{"productid": line.Product.ProductID, "quantity": bson.M{"$gte": line.Quantity}},
			bson.M{"$inc": bson.M{"quantity": -line.Quantity}},
		)
		if err != nil {
			return done, err
		}
		if res.ModifiedCount == 0 {
			// Sample-catalog items have no stock row; treat them as always in
			// stock rather than blocking checkout.
			if isSampleProduct(line.Product.ProductID) {
				continue
			}
			return done, mongo.ErrNoDocuments
		}
		done = append(done, stockLine{productID: line.Product.ProductID, quantity: line.Quantity})
	}
	return done, nil
}

func releaseStock(ctx context.Context, lines []stockLine) {
	for _, line := range lines {
		_, err := db.ProductCollection.UpdateOne(ctx,
			bson.M{"productid": line.productID},
			bson.M{"$inc": bson.M{"quantity": line.quantity}},
		)
		if err != nil {
			log.Printf("stock release for %s failed: %v", line.productID, err)
		}
	}
}

func isSampleProduct(productID string) bool {
	for _, p := range session.SampleProducts() {
		if p.ProductID == productID {
			return true
		}
	}
	return false
}
