package backend

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"uzhavan/db"
	"uzhavan/globals"
	"uzhavan/middleware"
	"uzhavan/models"
	"uzhavan/rdx"
	"uzhavan/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	refreshTokenTTL = 7 * 24 * time.Hour // 7 days
	accessTokenTTL  = 12 * time.Hour
)

// Mongo implements Service on the users/products collections.
type Mongo struct{}

func NewMongo() *Mongo {
	return &Mongo{}
}

func (m *Mongo) SignIn(ctx context.Context, email, secret string) (Identity, error) {
	var stored models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&stored)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(secret)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	token, err := signToken(stored)
	if err != nil {
		return Identity{}, fmt.Errorf("generate token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return Identity{}, fmt.Errorf("generate refresh token: %w", err)
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": stored.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(refreshToken),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
			"last_login":     time.Now(),
		}},
	)
	if err != nil {
		return Identity{}, fmt.Errorf("store refresh token: %w", err)
	}

	if err := rdx.RdxHset("tokki", stored.UserID, token); err != nil {
		log.Printf("backend: redis token cache failed: %v", err)
	}

	return Identity{UserID: stored.UserID, Token: token, RefreshToken: refreshToken}, nil
}

func (m *Mongo) SignUp(ctx context.Context, secret string, profile models.User) (string, error) {
	err := db.UserCollection.FindOne(ctx, bson.M{"email": profile.Email}).Err()
	if err == nil {
		return "", ErrDuplicateEmail
	} else if err != mongo.ErrNoDocuments {
		return "", fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	profile.UserID = "u" + utils.GenerateID(10)
	profile.Password = string(hashed)
	if !profile.Role.Valid() {
		profile.Role = models.RoleConsumer
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", profile.UserID), profile.Name); err != nil {
		log.Printf("backend: redis name cache failed: %v", err)
	}

	if _, err := db.UserCollection.InsertOne(ctx, profile); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return profile.UserID, nil
}

// RefreshSession exchanges a valid refresh token for a fresh identity,
// rotating the stored refresh token in the process.
func (m *Mongo) RefreshSession(ctx context.Context, userID, refreshToken string) (Identity, error) {
	var stored models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&stored)
	if err != nil {
		return Identity{}, ErrNoSession
	}

	if stored.RefreshToken == "" || stored.RefreshToken != hashToken(refreshToken) {
		return Identity{}, ErrNoSession
	}
	if time.Now().After(stored.RefreshExpiry) {
		return Identity{}, ErrNoSession
	}

	token, err := signToken(stored)
	if err != nil {
		return Identity{}, fmt.Errorf("generate token: %w", err)
	}
	rotated, err := generateRefreshToken()
	if err != nil {
		return Identity{}, fmt.Errorf("generate refresh token: %w", err)
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": stored.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(rotated),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
		}},
	)
	if err != nil {
		return Identity{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	if err := rdx.RdxHset("tokki", stored.UserID, token); err != nil {
		log.Printf("backend: redis token cache failed: %v", err)
	}

	return Identity{UserID: stored.UserID, Token: token, RefreshToken: rotated}, nil
}

func (m *Mongo) SignOut(ctx context.Context, userID string) error {
	if _, err := rdx.RdxHdel("tokki", userID); err != nil {
		log.Printf("backend: redis token removal failed: %v", err)
	}
	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$unset": bson.M{"refresh_token": "", "refresh_expiry": ""}},
	)
	return err
}

func (m *Mongo) SessionUser(ctx context.Context, token string) (string, error) {
	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrNoSession
	}
	return claims.UserID, nil
}

func (m *Mongo) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (m *Mongo) CreateProfile(ctx context.Context, u models.User) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	_, err := db.UserCollection.InsertOne(ctx, u)
	return err
}

func (m *Mongo) ListProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := db.ProductCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return JoinFarmerDetails(ctx, products)
}

// JoinFarmerDetails denormalizes farmer name and location onto each product,
// mirroring the products→farmers join of the catalog query.
func JoinFarmerDetails(ctx context.Context, products []models.Product) ([]models.Product, error) {
	if len(products) == 0 {
		return []models.Product{}, nil
	}

	ids := make([]string, 0, len(products))
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.FarmerID] {
			seen[p.FarmerID] = true
			ids = append(ids, p.FarmerID)
		}
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{"userid": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var farmers []models.User
	if err := cursor.All(ctx, &farmers); err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(farmers))
	for _, f := range farmers {
		byID[f.UserID] = f
	}

	for i, p := range products {
		f, ok := byID[p.FarmerID]
		if !ok {
			if products[i].FarmerName == "" {
				products[i].FarmerName = "Unknown Farmer"
			}
			continue
		}
		products[i].FarmerName = f.Name
		if products[i].Location == "" {
			products[i].Location = f.Location
		}
	}
	return products, nil
}

func signToken(u models.User) (string, error) {
	claims := &middleware.Claims{
		Email:  u.Email,
		UserID: u.UserID,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Generates a random refresh token
func generateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// Hashes a given token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
