package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"satmine/game"
	"satmine/middleware"
	"satmine/models"
	"satmine/utils"

	"golang.org/x/crypto/bcrypt"
)

// New accounts start with a small signup credit so the dashboard has
// something to show before the first purchase.
const signupBalance = 0.00000012

type RegisterRequest struct {
	Username             string `json:"username" validate:"required,username"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.PasswordConfirmation != "" && req.Password != req.PasswordConfirmation {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Passwords do not match"})
		return
	}

	eng := game.Default()
	if existing := eng.Store().FindUser(req.Username); existing != nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Username already taken"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	newUser := models.User{
		Username: req.Username,
		Password: string(hashed),
		Balance:  signupBalance,
		XP:       0,
		Rank:     game.RankBeginner,
		Theme:    "light",
		Currency: "bitcoin",
	}
	eng.Store().UpdateUser(newUser)
	log.Printf("[register] new account created: %s", newUser.Username)

	token, err := utils.GenerateJWT(newUser.Username, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Could not create session token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful, welcome aboard!",
		Data: map[string]interface{}{
			"access_token":  token,
			"access_expire": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
			"user": map[string]interface{}{
				"username": newUser.Username,
				"balance":  utils.RoundBTC(newUser.Balance),
				"xp":       newUser.XP,
				"rank":     newUser.Rank,
				"theme":    newUser.Theme,
				"currency": newUser.Currency,
			},
		},
	})
}
