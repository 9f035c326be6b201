// Package auth exposes the HTTP surface for sign-in, registration, logout,
// and token refresh. All state changes go through the session registry so the
// caller's cart and language ride along untouched.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"uzhavan/backend"
	"uzhavan/models"
	"uzhavan/session"
	"uzhavan/utils"
)

type Handler struct {
	Backend  *backend.Mongo
	Sessions *session.Registry
}

func NewHandler(b *backend.Mongo, sessions *session.Registry) *Handler {
	return &Handler{Backend: b, Sessions: sessions}
}

// Login authenticates the caller and binds the profile to their session
// scope. Requires a session scope (X-Device-ID header or an existing token).
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	scope := utils.SessionScope(r)
	if scope == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "X-Device-ID header is required")
		return
	}

	mgr := h.Sessions.Get(r.Context(), scope)
	id, err := mgr.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"token":        id.Token,
		"refreshToken": id.RefreshToken,
		"user":         mgr.User(),
	}, "Login successful", nil)
}

// Register creates a new account. It does not authenticate the session; the
// client follows up with Login.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Name     string      `json:"name"`
		Role     models.Role `json:"role"`
		Phone    string      `json:"phone"`
		Address  string      `json:"address"`
		Location string      `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" || input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email, password and name are required")
		return
	}
	if input.Role == "" {
		input.Role = models.RoleConsumer
	}
	if !input.Role.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Role must be farmer or consumer")
		return
	}

	profile := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Role:     input.Role,
		Phone:    input.Phone,
		Address:  input.Address,
		Location: input.Location,
	}

	userID, err := h.Backend.SignUp(r.Context(), input.Password, profile)
	if err != nil {
		if errors.Is(err, backend.ErrDuplicateEmail) {
			utils.RespondWithError(w, http.StatusConflict, "Email already registered")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	utils.SendResponse(w, http.StatusCreated, utils.M{"userid": userID}, "Registration successful", nil)
}

// Logout invalidates the remote identity and clears the session's user. The
// device-local cart and language preference survive.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scope := utils.SessionScope(r)
	if scope == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "No session to log out")
		return
	}

	h.Sessions.Get(r.Context(), scope).Logout(r.Context())
	utils.SendResponse(w, http.StatusOK, nil, "Logged out successfully", nil)
}

// RefreshToken exchanges a refresh token for a rotated identity pair.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserID == "" || input.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userid and refreshToken are required")
		return
	}

	id, err := h.Backend.RefreshSession(r.Context(), input.UserID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, backend.ErrNoSession) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"token":        id.Token,
		"refreshToken": id.RefreshToken,
	}, "Token refreshed", nil)
}
