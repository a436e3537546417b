package admins

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"satmine/database"
	"satmine/middleware"
	"satmine/models"
	"satmine/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

	if locked, retry := middleware.IsAccountLocked("admin:" + req.Username); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many failed attempts. Try again later.",
			Data:    map[string]interface{}{"retry_after_seconds": int(retry.Seconds())},
		})
		return
	}

	var admin models.Admin
	if err := database.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.RecordFailedLogin("admin:" + req.Username)
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid username or password"})
			return
		}
		log.Printf("[admin-login] DB error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if !admin.IsActive {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Admin account is disabled"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		middleware.RecordFailedLogin("admin:" + req.Username)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid username or password"})
		return
	}
	middleware.ResetFailedLogin("admin:" + req.Username)

	token, err := utils.GenerateJWT(admin.Username, "admin")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Admin login successful",
		Data: map[string]interface{}{
			"access_token":  token,
			"access_expire": time.Now().Add(6 * time.Hour).UTC().Format(time.RFC3339),
			"admin":         map[string]interface{}{"username": admin.Username},
		},
	})
}
