package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"satmine/game"
	"satmine/middleware"
	"satmine/utils"

	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	eng := game.Default()

	if locked, retry := middleware.IsAccountLocked(req.Username); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many failed attempts. Account temporarily locked.",
			Data:    map[string]interface{}{"retry_after_seconds": int(retry.Seconds())},
		})
		return
	}

	user := eng.Store().FindUser(req.Username)
	if user == nil {
		// Count unknown usernames too, otherwise the lockout leaks which
		// accounts exist.
		middleware.RecordFailedLogin(req.Username)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	if user.Blocked {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Your account has been blocked, please contact support"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		left := middleware.RecordFailedLogin(req.Username)
		msg := "Too many failed attempts. Account temporarily locked."
		if left > 0 {
			msg = fmt.Sprintf("Invalid username or password. %d attempts remaining", left)
		}
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: msg})
		return
	}

	middleware.ResetFailedLogin(req.Username)

	// Login side effects: daily tasks, streak, first-login reward.
	autoMessages := eng.RunAutoChecks(user.Username, time.Now())

	token, err := utils.GenerateJWT(user.Username, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}

	fresh := eng.Store().FindUser(user.Username)
	if fresh == nil {
		fresh = user
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful! Redirecting to dashboard...",
		Data: map[string]interface{}{
			"access_token":  token,
			"access_expire": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
			"user": map[string]interface{}{
				"username":     fresh.Username,
				"balance":      utils.RoundBTC(fresh.Balance),
				"xp":           fresh.XP,
				"rank":         fresh.Rank,
				"login_streak": fresh.LoginStreak,
				"mining":       fresh.Mining,
				"theme":        fresh.Theme,
				"currency":     fresh.Currency,
			},
			"messages": autoMessages,
		},
	})
}
