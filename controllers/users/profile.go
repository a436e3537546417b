package users

import (
	"net/http"
	"time"

	"satmine/game"
	"satmine/middleware"
	"satmine/utils"
)

// DashboardHandler is the single call the client makes on page load: it runs
// the login-time bookkeeping (daily resets, streaks, automatic task grants),
// then returns the profile, device summary and leaderboard.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	eng := game.Default()

	messages := eng.RunAutoChecks(username, time.Now())

	user := eng.Store().FindUser(username)
	if user == nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "user not found"})
		return
	}

	devices := eng.Devices(username)
	active := 0
	for _, d := range devices {
		if d.Active {
			active++
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Dashboard",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"username":     user.Username,
				"balance":      utils.RoundBTC(user.Balance),
				"xp":           user.XP,
				"rank":         user.Rank,
				"login_streak": user.LoginStreak,
				"mining":       user.Mining,
				"theme":        user.Theme,
				"currency":     user.Currency,
			},
			"devices": map[string]interface{}{
				"owned":  len(devices),
				"active": active,
			},
			"messages":    messages,
			"leaderboard": eng.Leaderboard(),
		},
	})
}

type SettingsRequest struct {
	Username string `json:"username"`
	Theme    string `json:"theme"`
	Currency string `json:"currency"`
}

// SettingsHandler updates profile preferences. A username change cascades to
// the caller's devices and task state.
func SettingsHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req SettingsRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	res := game.Default().UpdateSettings(username, req.Username, req.Theme, req.Currency)
	if !res.OK {
		status := http.StatusBadRequest
		if res.Message == "user not found" {
			status = http.StatusNotFound
		}
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: res.Message})
}

// DeleteAccountHandler removes the caller's account with all devices, task
// progress and ledger visibility.
func DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	game.Default().DeleteAccount(username)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Account deleted"})
}

// TransactionsHandler lists the caller's most recent ledger entries.
func TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	txs := game.Default().Store().LoadTransactions(username)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Your transactions",
		Data:    map[string]interface{}{"transactions": txs, "count": len(txs)},
	})
}
