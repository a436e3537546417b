package admins

import (
	"net/http"

	"github.com/gorilla/mux"

	"satmine/game"
	"satmine/middleware"
	"satmine/utils"
)

// ListUsersHandler returns every player sorted by balance, richest first.
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	entries := game.Default().Leaderboard()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Users",
		Data:    map[string]interface{}{"users": entries, "count": len(entries)},
	})
}

// UserDetailHandler returns one player's full record, devices included.
func UserDetailHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	eng := game.Default()

	user := eng.Store().FindUser(username)
	if user == nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "user not found"})
		return
	}

	devices := eng.Devices(user.Username)
	tasks := eng.Tasks(user.Username)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User detail",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"username":     user.Username,
				"balance":      utils.RoundBTC(user.Balance),
				"xp":           user.XP,
				"rank":         user.Rank,
				"login_streak": user.LoginStreak,
				"mining":       user.Mining,
				"blocked":      user.Blocked,
			},
			"devices": devices,
			"tasks":   tasks,
		},
	})
}

type BlockRequest struct {
	Blocked bool `json:"blocked"`
}

// BlockUserHandler sets or clears the moderation block on a player. Blocked
// players cannot log in.
func BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req BlockRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	res := game.Default().SetBlocked(username, req.Blocked)
	if !res.OK {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: res.Message})
}

type AdjustRequest struct {
	Balance float64 `json:"balance"`
	XP      int     `json:"xp"`
	Rank    string  `json:"rank"`
}

// AdjustUserHandler overwrites a player's balance, xp and rank. Leaving rank
// empty derives it from the new xp.
func AdjustUserHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req AdjustRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	res := game.Default().AdminAdjust(username, req.Balance, req.XP, req.Rank)
	if !res.OK {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: res.Message})
}

// DeleteUserHandler removes a player and everything they own.
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	eng := game.Default()

	if eng.Store().FindUser(username) == nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "user not found"})
		return
	}
	eng.DeleteAccount(username)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "user deleted"})
}
