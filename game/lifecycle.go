package game

import (
	"fmt"
	"sort"
	"time"

	"satmine/catalog"
	"satmine/models"
	"satmine/store"
	"satmine/utils"
)

type PurchaseResult struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message"`
	Device  *models.Device `json:"device,omitempty"`
	Balance float64        `json:"balance"`
}

// Purchase debits the catalog price and creates a device owned by the user.
// Catalog fields are snapshotted into the device row. Affordability is decided
// on integer satoshis so a balance exactly equal to the price always passes
// and always ends at exactly zero.
func (e *Engine) Purchase(username string, catalogID int, now time.Time) PurchaseResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return PurchaseResult{OK: false, Message: "user not found"}
	}
	tpl := catalog.FindDevice(catalogID)
	if tpl == nil {
		return PurchaseResult{OK: false, Message: "no such device in the store"}
	}

	balanceSats := utils.Satoshis(user.Balance)
	priceSats := utils.Satoshis(tpl.Price)
	if balanceSats < priceSats {
		return PurchaseResult{OK: false, Message: "insufficient balance", Balance: user.Balance}
	}

	user.Balance = utils.BTCFromSats(balanceSats - priceSats)
	e.st.UpdateUser(*user)

	device := models.Device{
		ID:          fmt.Sprintf("%d_%d", tpl.ID, now.UnixMilli()),
		Owner:       user.Username,
		CatalogID:   tpl.ID,
		Name:        tpl.Name,
		Price:       tpl.Price,
		SatPerCycle: tpl.SatPerCycle,
		Interval:    tpl.Interval,
		PowerOn:     false,
		Active:      false,
		CreatedAt:   now,
	}
	devices := e.st.LoadDevices()
	devices = append(devices, device)
	e.st.SaveDevices(devices)

	e.st.AppendTransaction(models.Transaction{
		Username: store.NormalizeUsername(user.Username),
		Amount:   tpl.Price,
		OrderID:  utils.GenerateOrderID(user.Username),
		Flow:     "debit",
		Type:     "purchase",
		Message:  utils.PtrString("Bought " + tpl.Name),
	})

	return PurchaseResult{OK: true, Message: "device purchased", Device: &device, Balance: user.Balance}
}

type DeviceToggleResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	PowerOn bool   `json:"power_on"`
	Active  bool   `json:"active"`
}

// TogglePower flips a device's power state. Powering off always disengages
// mining and clears the tick cursor in the same write.
func (e *Engine) TogglePower(username, deviceID string) DeviceToggleResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	devices := e.st.LoadDevices()
	for i := range devices {
		d := &devices[i]
		if d.ID != deviceID || d.Owner != username {
			continue
		}
		d.PowerOn = !d.PowerOn
		msg := "device powered on: " + d.Name
		if !d.PowerOn {
			d.Active = false
			d.LastTick = nil
			msg = "device powered off: " + d.Name
		}
		e.st.SaveDevices(devices)
		return DeviceToggleResult{OK: true, Message: msg, PowerOn: d.PowerOn, Active: d.Active}
	}
	return DeviceToggleResult{OK: false, Message: "device not found or not yours"}
}

// ToggleMining engages or disengages mining on one device. The device must be
// powered on first.
func (e *Engine) ToggleMining(username, deviceID string, now time.Time) DeviceToggleResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	devices := e.st.LoadDevices()
	for i := range devices {
		d := &devices[i]
		if d.ID != deviceID || d.Owner != username {
			continue
		}
		if !d.PowerOn {
			return DeviceToggleResult{OK: false, Message: "power the device on before mining", PowerOn: false, Active: false}
		}
		d.Active = !d.Active
		msg := "mining started on " + d.Name
		if d.Active {
			t := now.Unix()
			d.LastTick = &t
		} else {
			d.LastTick = nil
			msg = "mining stopped on " + d.Name
		}
		e.st.SaveDevices(devices)
		return DeviceToggleResult{OK: true, Message: msg, PowerOn: d.PowerOn, Active: d.Active}
	}
	return DeviceToggleResult{OK: false, Message: "device not found or not yours"}
}

type MiningControlResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Mining  bool   `json:"mining"`
}

// StartMining engages every powered device the user owns.
func (e *Engine) StartMining(username string, now time.Time) MiningControlResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return MiningControlResult{OK: false, Message: "user not found"}
	}

	devices := e.st.LoadDevices()
	owned, powered := 0, 0
	changed := false
	nowSec := now.Unix()
	for i := range devices {
		d := &devices[i]
		if d.Owner != username {
			continue
		}
		owned++
		if !d.PowerOn {
			continue
		}
		powered++
		if !d.Active {
			d.Active = true
			t := nowSec
			d.LastTick = &t
			changed = true
		}
	}
	if owned == 0 {
		return MiningControlResult{OK: false, Message: "you own no devices yet, buy one first"}
	}
	if powered == 0 {
		return MiningControlResult{OK: false, Message: "no device is powered on, power one on first"}
	}
	if changed {
		e.st.SaveDevices(devices)
	}

	user.Mining = true
	e.st.UpdateUser(*user)
	return MiningControlResult{OK: true, Message: "mining started", Mining: true}
}

// StopMining disengages all of the user's devices and clears their cursors.
func (e *Engine) StopMining(username string) MiningControlResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return MiningControlResult{OK: false, Message: "user not found"}
	}

	devices := e.st.LoadDevices()
	changed := false
	for i := range devices {
		d := &devices[i]
		if d.Owner == username && d.Active {
			d.Active = false
			d.LastTick = nil
			changed = true
		}
	}
	if changed {
		e.st.SaveDevices(devices)
	}

	user.Mining = false
	e.st.UpdateUser(*user)
	return MiningControlResult{OK: true, Message: "mining stopped", Mining: false}
}

// Devices lists the devices the user owns.
func (e *Engine) Devices(username string) []models.Device {
	var out []models.Device
	for _, d := range e.st.LoadDevices() {
		if d.Owner == username {
			out = append(out, d)
		}
	}
	return out
}

type WithdrawResult struct {
	OK      bool    `json:"ok"`
	Balance float64 `json:"balance"`
	XP      int     `json:"xp"`
	Rank    string  `json:"rank"`
}

// Withdraw cashes the simulated balance out: balance and xp reset, rank drops
// back to the lowest tier.
func (e *Engine) Withdraw(username string) WithdrawResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return WithdrawResult{OK: false, Rank: RankBeginner}
	}
	amount := user.Balance
	user.Balance = 0
	user.XP = 0
	user.Rank = RankBeginner
	e.st.UpdateUser(*user)

	if amount > 0 {
		e.st.AppendTransaction(models.Transaction{
			Username: store.NormalizeUsername(user.Username),
			Amount:   amount,
			OrderID:  utils.GenerateOrderID(user.Username),
			Flow:     "debit",
			Type:     "withdraw",
			Message:  utils.PtrString("Balance withdrawn"),
		})
	}
	return WithdrawResult{OK: true, Balance: 0, XP: 0, Rank: RankBeginner}
}

// DeleteAccount removes the user and cascades to their devices and tasks.
func (e *Engine) DeleteAccount(username string) {
	unlock := e.locks.Lock(username)
	defer unlock()
	e.st.DeleteUser(username)
}

type LeaderboardEntry struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
	Rank     string  `json:"rank"`
	XP       int     `json:"xp"`
}

// Leaderboard returns all users ordered by balance, richest first.
func (e *Engine) Leaderboard() []LeaderboardEntry {
	users := e.st.LoadUsers()
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Balance > users[j].Balance
	})
	out := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		out = append(out, LeaderboardEntry{Username: u.Username, Balance: u.Balance, Rank: u.Rank, XP: u.XP})
	}
	return out
}

// SetBlocked flips the admin moderation flag on a user.
func (e *Engine) SetBlocked(username string, blocked bool) TaskResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return TaskResult{OK: false, Message: "user not found"}
	}
	user.Blocked = blocked
	e.st.UpdateUser(*user)
	if blocked {
		return TaskResult{OK: true, Message: "user blocked"}
	}
	return TaskResult{OK: true, Message: "user unblocked"}
}

// AdminAdjust overwrites a user's balance, xp and rank. This is the only path
// where rank may be set directly instead of derived.
func (e *Engine) AdminAdjust(username string, balance float64, xp int, rank string) TaskResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return TaskResult{OK: false, Message: "user not found"}
	}
	user.Balance = utils.RoundBTC(balance)
	user.XP = xp
	if rank != "" {
		user.Rank = rank
	} else {
		user.Rank = RankOf(xp)
	}
	e.st.UpdateUser(*user)
	e.st.AppendTransaction(models.Transaction{
		Username: store.NormalizeUsername(user.Username),
		Amount:   user.Balance,
		OrderID:  utils.GenerateOrderID(user.Username),
		Flow:     "credit",
		Type:     "admin_adjust",
		Message:  utils.PtrString("Balance set by admin"),
	})
	return TaskResult{OK: true, Message: "user updated"}
}

// UpdateSettings changes profile preferences. A username change cascades to
// device ownership and the task-state key so records never orphan.
func (e *Engine) UpdateSettings(username, newUsername, theme, currency string) TaskResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return TaskResult{OK: false, Message: "user not found"}
	}

	if theme != "" {
		user.Theme = theme
	}
	if currency != "" {
		user.Currency = currency
	}

	if newUsername != "" && newUsername != user.Username {
		if e.st.FindUser(newUsername) != nil {
			return TaskResult{OK: false, Message: "username already taken"}
		}
		oldKey := store.NormalizeUsername(user.Username)
		newKey := store.NormalizeUsername(newUsername)

		devices := e.st.LoadDevices()
		changed := false
		for i := range devices {
			if devices[i].Owner == user.Username {
				devices[i].Owner = newUsername
				changed = true
			}
		}
		if changed {
			e.st.SaveDevices(devices)
		}

		states := e.st.LoadTaskStates()
		if tasks, ok := states[oldKey]; ok {
			delete(states, oldKey)
			for i := range tasks {
				tasks[i].Username = newKey
			}
			states[newKey] = tasks
			e.st.SaveTaskStates(states)
		}

		users := e.st.LoadUsers()
		for i := range users {
			if users[i].Username == user.Username {
				users[i].Username = newUsername
				users[i].Theme = user.Theme
				users[i].Currency = user.Currency
				e.st.SaveUsers(users)
				return TaskResult{OK: true, Message: "settings updated"}
			}
		}
		return TaskResult{OK: false, Message: "user not found"}
	}

	e.st.UpdateUser(*user)
	return TaskResult{OK: true, Message: "settings updated"}
}
