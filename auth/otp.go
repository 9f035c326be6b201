package auth

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"uzhavan/db"
	"uzhavan/rdx"
	"uzhavan/utils"
)

const otpTTL = 10 * time.Minute

func generateOTP(length int) string {
	digits := "0123456789"
	var otp strings.Builder
	for i := 0; i < length; i++ {
		otp.WriteByte(digits[rand.Intn(len(digits))])
	}
	return otp.String()
}

func sendEmailOTP(toEmail, otp string) error {
	from := os.Getenv("SMTP_FROM")
	pass := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	msg := []byte("Subject: Verify your account\n\nYour verification code is: " + otp)

	auth := smtp.PlainAuth("", from, pass, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{toEmail}, msg)
}

// RequestOTP mails a short-lived verification code to the given address.
func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	otp := generateOTP(6)
	if err := rdx.SetWithExpiry("otp:"+input.Email, otp, otpTTL); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	if err := sendEmailOTP(input.Email, otp); err != nil {
		log.Printf("otp mail to %s failed: %v", input.Email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send code")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Verification code sent", nil)
}

// VerifyOTP checks the code and flags the account as verified.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	stored, err := rdx.RdxGet("otp:" + input.Email)
	if err != nil || stored == "" || stored != input.OTP {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	_, err = db.UserCollection.UpdateOne(r.Context(),
		bson.M{"email": input.Email},
		bson.M{"$set": bson.M{"is_verified": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify account")
		return
	}

	if _, err := rdx.RdxDel("otp:" + input.Email); err != nil {
		log.Printf("otp cleanup for %s failed: %v", input.Email, err)
	}
	utils.SendResponse(w, http.StatusOK, nil, "Account verified", nil)
}
