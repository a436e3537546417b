package auth

import (
	"log"
	"net/http"

	"satmine/game"
	"satmine/utils"
)

// LogoutHandler stops any active mining session for the user. Tokens are
// stateless, so the client is expected to discard its copy.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if res := game.Default().StopMining(username); !res.OK {
		log.Printf("[logout] stop mining for %s: %s", username, res.Message)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
