package products

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"uzhavan/db"
	"uzhavan/utils"
)

var (
	errNotFound    = errors.New("not found")
	errNotOwner    = errors.New("unauthorized")
	errOwnershipDB = errors.New("database error")
)

func requireOwnership(ctx context.Context, productID, userID string) error {
	var result bson.M
	err := db.ProductCollection.FindOne(ctx,
		bson.M{"productid": productID},
		options.FindOne().SetProjection(bson.M{"farmer_id": 1}),
	).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return errNotFound
		}
		return errOwnershipDB
	}

	owner, _ := result["farmer_id"].(string)
	if owner != userID {
		return errNotOwner
	}
	return nil
}

func respondOwnership(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, errNotOwner):
		utils.RespondWithError(w, http.StatusForbidden, "You do not own this product")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify ownership")
	}
}
