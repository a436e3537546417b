package game

import (
	"testing"
	"time"

	"satmine/models"
)

func TestPurchase_ExactBalanceLeavesZero(t *testing.T) {
	e, st := newTestEngine()
	// Catalog id 3 costs 0.00001000
	st.UpdateUser(models.User{Username: "alice", Balance: 0.00001000})

	res := e.Purchase("alice", 3, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	if !res.OK {
		t.Fatalf("purchase failed: %s", res.Message)
	}
	if res.Balance != 0 {
		t.Fatalf("expected exactly zero balance, got %.10f", res.Balance)
	}
	if res.Device == nil {
		t.Fatalf("expected device in result")
	}
	if res.Device.PowerOn || res.Device.Active || res.Device.LastTick != nil {
		t.Fatalf("new device must start powered off and inactive: %+v", res.Device)
	}
	if res.Device.Name != "Antminer S19 Pro" || res.Device.SatPerCycle != 13 || res.Device.Interval != 22 {
		t.Fatalf("catalog snapshot not copied: %+v", res.Device)
	}

	owned := e.Devices("alice")
	if len(owned) != 1 {
		t.Fatalf("expected 1 owned device, got %d", len(owned))
	}
}

func TestPurchase_InsufficientBalance(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", Balance: 0.00000999})

	res := e.Purchase("alice", 3, time.Now())
	if res.OK {
		t.Fatalf("purchase must fail below price")
	}
	if res.Message != "insufficient balance" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if st.FindUser("alice").Balance != 0.00000999 {
		t.Fatalf("balance must be untouched on failure")
	}
	if len(e.Devices("alice")) != 0 {
		t.Fatalf("no device may be created on failure")
	}
}

func TestPurchase_UnknownCatalogID(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", Balance: 1})
	if res := e.Purchase("alice", 99, time.Now()); res.OK {
		t.Fatalf("unknown catalog id must be rejected")
	}
}

func TestTogglePower_OffForcesMiningStop(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	d := activeDevice("alice", 6, 30, 100)
	st.SaveDevices([]models.Device{d})

	res := e.TogglePower("alice", d.ID)
	if !res.OK {
		t.Fatalf("toggle failed: %s", res.Message)
	}
	if res.PowerOn || res.Active {
		t.Fatalf("power-off must also disengage mining: %+v", res)
	}
	after := e.Devices("alice")[0]
	if after.Active || after.PowerOn || after.LastTick != nil {
		t.Fatalf("device state not cleared on power-off: %+v", after)
	}
}

func TestToggleMining_RequiresPower(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	d := activeDevice("alice", 6, 30, 0)
	d.PowerOn = false
	d.Active = false
	d.LastTick = nil
	st.SaveDevices([]models.Device{d})

	res := e.ToggleMining("alice", d.ID, time.Now())
	if res.OK {
		t.Fatalf("mining toggle must be rejected while powered off")
	}
	if res.Message != "power the device on before mining" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestToggleMining_SetsAndClearsCursor(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	d := activeDevice("alice", 6, 30, 0)
	d.Active = false
	d.LastTick = nil
	st.SaveDevices([]models.Device{d})
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	res := e.ToggleMining("alice", d.ID, now)
	if !res.OK || !res.Active {
		t.Fatalf("expected mining engaged: %+v", res)
	}
	after := e.Devices("alice")[0]
	if after.LastTick == nil || *after.LastTick != now.Unix() {
		t.Fatalf("cursor must initialize to now, got %v", after.LastTick)
	}

	res = e.ToggleMining("alice", d.ID, now)
	if !res.OK || res.Active {
		t.Fatalf("expected mining disengaged: %+v", res)
	}
	if e.Devices("alice")[0].LastTick != nil {
		t.Fatalf("cursor must clear on disengage")
	}
}

func TestToggleMining_WrongOwner(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	st.UpdateUser(models.User{Username: "bob"})
	d := activeDevice("alice", 6, 30, 0)
	st.SaveDevices([]models.Device{d})

	if res := e.ToggleMining("bob", d.ID, time.Now()); res.OK {
		t.Fatalf("foreign device must be rejected")
	}
}

func TestStartMining_RequiresOwnedAndPowered(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	now := time.Now()

	res := e.StartMining("alice", now)
	if res.OK {
		t.Fatalf("start must fail with no devices")
	}

	d := activeDevice("alice", 6, 30, 0)
	d.PowerOn = false
	d.Active = false
	d.LastTick = nil
	st.SaveDevices([]models.Device{d})
	res = e.StartMining("alice", now)
	if res.OK {
		t.Fatalf("start must fail with no powered device")
	}

	d.PowerOn = true
	st.SaveDevices([]models.Device{d})
	res = e.StartMining("alice", now)
	if !res.OK || !res.Mining {
		t.Fatalf("start failed: %+v", res)
	}
	after := e.Devices("alice")[0]
	if !after.Active || after.LastTick == nil {
		t.Fatalf("powered device must be engaged with a cursor: %+v", after)
	}
	if !st.FindUser("alice").Mining {
		t.Fatalf("user mining flag not set")
	}
}

func TestStopMining_ClearsAllCursors(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", Mining: true})
	d1 := activeDevice("alice", 6, 30, 100)
	d2 := activeDevice("alice", 8, 26, 100)
	d2.ID = "2_2000"
	st.SaveDevices([]models.Device{d1, d2})

	res := e.StopMining("alice")
	if !res.OK || res.Mining {
		t.Fatalf("stop failed: %+v", res)
	}
	for _, d := range e.Devices("alice") {
		if d.Active || d.LastTick != nil {
			t.Fatalf("device still engaged after stop: %+v", d)
		}
	}
	if st.FindUser("alice").Mining {
		t.Fatalf("user mining flag not cleared")
	}
}

func TestWithdraw_ResetsProgress(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", Balance: 0.5, XP: 70000, Rank: RankLegendary})

	res := e.Withdraw("alice")
	if !res.OK {
		t.Fatalf("withdraw failed")
	}
	u := st.FindUser("alice")
	if u.Balance != 0 || u.XP != 0 || u.Rank != RankBeginner {
		t.Fatalf("withdraw must zero progress: %+v", u)
	}
	txs := st.LoadTransactions("alice")
	if len(txs) != 1 || txs[0].Type != "withdraw" {
		t.Fatalf("expected one withdraw ledger row, got %+v", txs)
	}
}

func TestDeleteAccount_CascadesAndIsolates(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	st.UpdateUser(models.User{Username: "bob"})
	da := activeDevice("alice", 6, 30, 0)
	db := activeDevice("bob", 6, 30, 0)
	db.ID = "1_2000"
	st.SaveDevices([]models.Device{da, db})
	e.Tasks("alice")
	e.Tasks("bob")

	e.DeleteAccount("alice")

	if st.FindUser("alice") != nil {
		t.Fatalf("user not removed")
	}
	if len(e.Devices("alice")) != 0 {
		t.Fatalf("alice's devices not removed")
	}
	if _, ok := st.LoadTaskStates()["alice"]; ok {
		t.Fatalf("alice's task state not removed")
	}

	if st.FindUser("bob") == nil {
		t.Fatalf("bob must survive")
	}
	if len(e.Devices("bob")) != 1 {
		t.Fatalf("bob's devices must survive")
	}
	if _, ok := st.LoadTaskStates()["bob"]; !ok {
		t.Fatalf("bob's task state must survive")
	}
}

func TestLeaderboard_SortedByBalance(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "poor", Balance: 0.1})
	st.UpdateUser(models.User{Username: "rich", Balance: 0.9})
	st.UpdateUser(models.User{Username: "mid", Balance: 0.5})

	board := e.Leaderboard()
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	if board[0].Username != "rich" || board[2].Username != "poor" {
		t.Fatalf("leaderboard out of order: %+v", board)
	}
}

func TestSetBlockedAndAdminAdjust(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})

	if res := e.SetBlocked("alice", true); !res.OK {
		t.Fatalf("block failed: %s", res.Message)
	}
	if !st.FindUser("alice").Blocked {
		t.Fatalf("blocked flag not set")
	}

	if res := e.AdminAdjust("alice", 0.25, 30000, ""); !res.OK {
		t.Fatalf("adjust failed: %s", res.Message)
	}
	u := st.FindUser("alice")
	if u.Balance != 0.25 || u.XP != 30000 {
		t.Fatalf("adjust not applied: %+v", u)
	}
	if u.Rank != RankExpert {
		t.Fatalf("rank must derive from xp when not provided, got %q", u.Rank)
	}
}

func TestUpdateSettings_RenameCascades(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	d := activeDevice("alice", 6, 30, 0)
	st.SaveDevices([]models.Device{d})
	e.Tasks("alice")

	res := e.UpdateSettings("alice", "alicia", "dark", "")
	if !res.OK {
		t.Fatalf("rename failed: %s", res.Message)
	}
	if st.FindUser("alice") != nil {
		t.Fatalf("old username must be gone")
	}
	renamed := st.FindUser("alicia")
	if renamed == nil || renamed.Theme != "dark" {
		t.Fatalf("renamed user wrong: %+v", renamed)
	}
	if len(e.Devices("alicia")) != 1 {
		t.Fatalf("device ownership must follow the rename")
	}
	states := st.LoadTaskStates()
	if _, ok := states["alicia"]; !ok {
		t.Fatalf("task state key must follow the rename")
	}
	if _, ok := states["alice"]; ok {
		t.Fatalf("old task state key must be gone")
	}
}

func TestUpdateSettings_RejectsTakenName(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	st.UpdateUser(models.User{Username: "bob"})

	if res := e.UpdateSettings("alice", "bob", "", ""); res.OK {
		t.Fatalf("rename onto an existing user must fail")
	}
}
