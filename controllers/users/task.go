package users

import (
	"fmt"
	"net/http"
	"time"

	"satmine/catalog"
	"satmine/game"
	"satmine/middleware"
	"satmine/utils"
)

// formatReward renders a task reward for display, either as BTC or XP.
func formatReward(amount float64, rewardType string) string {
	if rewardType == catalog.RewardExperience {
		return fmt.Sprintf("%d XP", int(amount))
	}
	return fmt.Sprintf("%.8f BTC", amount)
}

// ListTasksHandler returns the caller's task list with display-ready rewards.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	tasks := game.Default().Tasks(username)
	out := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, map[string]interface{}{
			"title":       t.Title,
			"reward":      formatReward(t.Reward, t.RewardType),
			"reward_type": t.RewardType,
			"condition":   t.Condition,
			"daily":       t.Daily,
			"completed":   t.Completed,
			"last_done":   t.LastDone,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Your tasks",
		Data:    map[string]interface{}{"tasks": out, "count": len(out)},
	})
}

type CompleteTaskRequest struct {
	Condition string `json:"condition" validate:"required"`
}

// CompleteTaskHandler claims one task's reward. Claiming the same task twice
// is rejected.
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CompleteTaskRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	res := game.Default().CompleteTask(username, req.Condition, time.Now())
	if !res.OK {
		status := http.StatusBadRequest
		switch res.Message {
		case "user not found", "task not found":
			status = http.StatusNotFound
		case "task already completed":
			status = http.StatusConflict
		}
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: res.Message})
		return
	}

	user := game.Default().Store().FindUser(username)
	data := map[string]interface{}{}
	if user != nil {
		data["balance"] = utils.RoundBTC(user.Balance)
		data["xp"] = user.XP
		data["rank"] = user.Rank
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: res.Message, Data: data})
}
