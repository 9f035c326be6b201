package voice

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"uzhavan/utils"
)

type interpretRequest struct {
	Transcript string `json:"transcript"`
}

type interpretResponse struct {
	Command string `json:"command"`
	Matched bool   `json:"matched"`
}

// InterpretCommand resolves a transcript through the phrase tables so clients
// without local dispatch can share the exact same command vocabulary.
func InterpretCommand(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req interpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Transcript == "" {
		http.Error(w, "Transcript is required", http.StatusBadRequest)
		return
	}

	command, matched := Dispatch(req.Transcript)
	utils.RespondWithJSON(w, http.StatusOK, interpretResponse{Command: command, Matched: matched})
}

// ListCommands returns the phrase tables in priority order, for clients that
// render a help screen or dispatch locally.
func ListCommands(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"locale":     Locale,
		"categories": Commands,
	})
}
