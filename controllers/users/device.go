package users

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"satmine/catalog"
	"satmine/game"
	"satmine/middleware"
	"satmine/utils"
)

// CatalogHandler lists the devices available in the store.
func CatalogHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Device catalog",
		Data:    catalog.Devices,
	})
}

// ListDevicesHandler returns the devices the caller owns.
func ListDevicesHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	devices := game.Default().Devices(username)
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Your devices",
		Data:    map[string]interface{}{"devices": devices, "count": len(devices)},
	})
}

type BuyDeviceRequest struct {
	DeviceID int `json:"device_id"`
}

// BuyDeviceHandler purchases one catalog device for the caller.
func BuyDeviceHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req BuyDeviceRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.DeviceID <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "device_id is required"})
		return
	}

	res := game.Default().Purchase(username, req.DeviceID, time.Now())
	if !res.OK {
		status := http.StatusBadRequest
		if res.Message == "user not found" {
			status = http.StatusNotFound
		}
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: res.Message, Data: map[string]interface{}{"balance": utils.RoundBTC(res.Balance)}})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: res.Message,
		Data: map[string]interface{}{
			"device":  res.Device,
			"balance": utils.RoundBTC(res.Balance),
		},
	})
}

// TogglePowerHandler flips the power switch on one owned device.
func TogglePowerHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	deviceID := mux.Vars(r)["id"]

	res := game.Default().TogglePower(username, deviceID)
	if !res.OK {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: res.Message,
		Data:    map[string]interface{}{"power_on": res.PowerOn, "active": res.Active},
	})
}

// ToggleMiningHandler engages or disengages mining on one owned device.
func ToggleMiningHandler(w http.ResponseWriter, r *http.Request) {
	username, ok := utils.GetUsername(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	deviceID := mux.Vars(r)["id"]

	res := game.Default().ToggleMining(username, deviceID, time.Now())
	if !res.OK {
		status := http.StatusBadRequest
		if res.Message == "device not found or not yours" {
			status = http.StatusNotFound
		}
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: res.Message})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: res.Message,
		Data:    map[string]interface{}{"power_on": res.PowerOn, "active": res.Active},
	})
}
