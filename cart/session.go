package cart

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"uzhavan/utils"
)

// GetSession returns the full session snapshot: user, cart, language, and the
// cached product listing.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "session": mgr.Snapshot()})
}

// ToggleLanguage flips the session between English and Tamil.
func (h *Handler) ToggleLanguage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "language": mgr.ToggleLanguage()})
}

// RefreshProducts re-fetches the session's product cache from the catalog.
func (h *Handler) RefreshProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mgr := h.manager(w, r)
	if mgr == nil {
		return
	}
	mgr.RefreshProducts(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "products": mgr.Products()})
}
