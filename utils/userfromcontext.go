package utils

import (
	"net/http"

	"uzhavan/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRoleFromRequest(r *http.Request) string {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}

// SessionScope names the cart/session owner for a request. The device id wins
// over the authenticated user so a guest cart survives login and logout on the
// same device, matching the per-device persistence contract.
func SessionScope(r *http.Request) string {
	if dev := r.Header.Get("X-Device-ID"); dev != "" {
		return "dev:" + dev
	}
	if uid := GetUserIDFromRequest(r); uid != "" {
		return "user:" + uid
	}
	return ""
}
