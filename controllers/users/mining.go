package users

import (
	"net/http"
	"time"

	"satmine/game"
	"satmine/utils"
)

// StartMiningHandler engages every powered device the caller owns.
func StartMiningHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	res := game.Default().StartMining(username, time.Now())
	if !res.OK {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: res.Message,
		Data:    map[string]interface{}{"mining": res.Mining},
	})
}

// StopMiningHandler disengages all devices and clears their cursors.
func StopMiningHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	res := game.Default().StopMining(username)
	if !res.OK {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: res.Message,
		Data:    map[string]interface{}{"mining": res.Mining},
	})
}

// MiningTickHandler settles elapsed cycles on the caller's active devices and
// returns the updated totals. Polling it more often than devices cycle credits
// nothing extra.
func MiningTickHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	res := game.Default().MiningTick(username, time.Now())
	if !res.OK {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "tick settled",
		Data: map[string]interface{}{
			"sats_added": res.SatsAdded,
			"balance":    utils.RoundBTC(res.Balance),
			"xp":         res.XP,
			"rank":       res.Rank,
		},
	})
}

// WithdrawHandler cashes out the simulated balance. Balance and experience
// reset and the rank falls back to the lowest tier.
func WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	res := game.Default().Withdraw(username)
	if !res.OK {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "user not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal complete. Progress has been reset.",
		Data: map[string]interface{}{
			"balance": res.Balance,
			"xp":      res.XP,
			"rank":    res.Rank,
		},
	})
}
