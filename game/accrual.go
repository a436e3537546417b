package game

import (
	"time"

	"satmine/models"
	"satmine/store"
	"satmine/utils"
)

// Experience multiplier: every 6 satoshi mined grant 20 xp.
const (
	xpPerChunk   = 20
	satsPerChunk = 6
)

// SettleDevice converts the wall-clock time elapsed since the device's last
// tick into whole reward cycles and returns the satoshi gain. The tick cursor
// advances by exact multiples of the interval rather than snapping to now, so
// partial-cycle progress is never lost and settling every second or once an
// hour yields the same total.
func SettleDevice(d *models.Device, now int64) int64 {
	if !d.Active {
		return 0
	}
	if d.Interval <= 0 {
		return 0
	}
	if d.LastTick == nil {
		// First observation only establishes the baseline, no retroactive credit.
		t := now
		d.LastTick = &t
		return 0
	}
	elapsed := now - *d.LastTick
	if elapsed < int64(d.Interval) {
		// Also covers a clock that did not advance (or went backwards).
		return 0
	}
	cycles := elapsed / int64(d.Interval)
	if cycles <= 0 {
		return 0
	}
	next := *d.LastTick + cycles*int64(d.Interval)
	d.LastTick = &next
	return cycles * int64(d.SatPerCycle)
}

type TickResult struct {
	OK        bool    `json:"ok"`
	Message   string  `json:"message,omitempty"`
	SatsAdded int64   `json:"sats_added"`
	Balance   float64 `json:"balance"`
	XP        int     `json:"xp"`
	Rank      string  `json:"rank"`
}

// MiningTick settles every active device the user owns and applies the total
// gain to their balance, xp and rank in one pass.
func (e *Engine) MiningTick(username string, now time.Time) TickResult {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return TickResult{OK: false, Message: "user not found"}
	}
	if !user.Mining {
		return TickResult{OK: false, Message: "mining not started"}
	}

	devices := e.st.LoadDevices()
	nowSec := now.Unix()
	var total int64
	changed := false
	for i := range devices {
		if devices[i].Owner != user.Username {
			continue
		}
		before := devices[i].LastTick
		gain := SettleDevice(&devices[i], nowSec)
		if gain > 0 || before != devices[i].LastTick {
			changed = true
		}
		total += gain
	}
	if changed {
		e.st.SaveDevices(devices)
	}

	if total > 0 {
		user.Balance = utils.RoundBTC(user.Balance + utils.BTCFromSats(total))
		user.XP += int(total/satsPerChunk) * xpPerChunk
		user.Rank = RankOf(user.XP)
		e.st.UpdateUser(*user)
		e.st.AppendTransaction(models.Transaction{
			Username: store.NormalizeUsername(user.Username),
			Amount:   utils.BTCFromSats(total),
			OrderID:  utils.GenerateOrderID(user.Username),
			Flow:     "credit",
			Type:     "mining",
			Message:  utils.PtrString("Mining yield"),
		})
	}

	return TickResult{
		OK:        true,
		SatsAdded: total,
		Balance:   utils.RoundBTC(user.Balance),
		XP:        user.XP,
		Rank:      user.Rank,
	}
}
