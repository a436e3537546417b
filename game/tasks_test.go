package game

import (
	"testing"
	"time"

	"satmine/models"
	"satmine/store"
)

func newTestEngine() (*Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st), st
}

func TestCompleteTask_SingleGrant(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", Balance: 0, Rank: RankBeginner})
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	res := e.CompleteTask("alice", "first_login", now)
	if !res.OK {
		t.Fatalf("first completion failed: %s", res.Message)
	}
	after := st.FindUser("alice")
	if after.Balance != 0.00000006 {
		t.Fatalf("expected reward 0.00000006, got %.8f", after.Balance)
	}

	res2 := e.CompleteTask("alice", "first_login", now)
	if res2.OK {
		t.Fatalf("second completion must be rejected")
	}
	if res2.Message != "task already completed" {
		t.Fatalf("unexpected message %q", res2.Message)
	}
	if st.FindUser("alice").Balance != after.Balance {
		t.Fatalf("balance changed on rejected completion")
	}
}

func TestCompleteTask_UnknownConditionNeverSatisfied(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})

	res := e.CompleteTask("alice", "hack_the_planet", time.Now())
	if res.OK {
		t.Fatalf("unknown condition must not grant")
	}
	if res.Message != "task not found" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestCompleteTask_RequirementNotMet(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})

	res := e.CompleteTask("alice", "buy_3_items", time.Now())
	if res.OK {
		t.Fatalf("buy_3_items must fail with no devices")
	}
	tasks := e.Tasks("alice")
	for _, task := range tasks {
		if task.Condition == "buy_3_items" && task.Completed {
			t.Fatalf("unmet task must not be marked completed")
		}
	}
}

func TestCompleteTask_ExperienceRewardUpdatesRank(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice", XP: 24500, Rank: RankIntermediate, LoginStreak: 7})

	res := e.CompleteTask("alice", "login_7_days", time.Now())
	if !res.OK {
		t.Fatalf("completion failed: %s", res.Message)
	}
	after := st.FindUser("alice")
	if after.XP != 25400 {
		t.Fatalf("expected 25400 xp, got %d", after.XP)
	}
	if after.Rank != RankExpert {
		t.Fatalf("rank not recomputed, got %q", after.Rank)
	}
}

func TestCompleteTask_UserNotFound(t *testing.T) {
	e, _ := newTestEngine()
	res := e.CompleteTask("ghost", "first_login", time.Now())
	if res.OK || res.Message != "user not found" {
		t.Fatalf("expected user-not-found failure, got %+v", res)
	}
}

func TestRunAutoChecks_FirstLoginAndStreakStart(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	msgs := e.RunAutoChecks("alice", now)
	if len(msgs) == 0 {
		t.Fatalf("expected first_login grant message")
	}
	u := st.FindUser("alice")
	if u.LoginStreak != 1 {
		t.Fatalf("expected streak 1 on first sight, got %d", u.LoginStreak)
	}
	if u.LastLogin == nil || !u.LastLogin.Equal(now) {
		t.Fatalf("lastLogin not stamped")
	}
	if u.Balance != 0.00000006 {
		t.Fatalf("first_login reward missing, balance %.8f", u.Balance)
	}
}

// A gap of any length adds exactly one day to the streak. A ten-day absence
// still counts as one more consecutive day. Intentional: players' streaks
// were built on this behavior.
func TestRunAutoChecks_StreakIncrementsOnAnyGap(t *testing.T) {
	e, st := newTestEngine()
	last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	st.UpdateUser(models.User{Username: "alice", LoginStreak: 3, LastLogin: &last})

	e.RunAutoChecks("alice", last.Add(10*24*time.Hour))
	if got := st.FindUser("alice").LoginStreak; got != 4 {
		t.Fatalf("expected streak 4 after 10-day gap, got %d", got)
	}
}

func TestRunAutoChecks_SameDayDoesNotIncrement(t *testing.T) {
	e, st := newTestEngine()
	last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	st.UpdateUser(models.User{Username: "alice", LoginStreak: 3, LastLogin: &last})

	e.RunAutoChecks("alice", last.Add(2*time.Hour))
	if got := st.FindUser("alice").LoginStreak; got != 3 {
		t.Fatalf("streak must not move within the same day, got %d", got)
	}
}

func TestRunAutoChecks_GrantsStreakTasks(t *testing.T) {
	e, st := newTestEngine()
	last := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	st.UpdateUser(models.User{Username: "alice", LoginStreak: 6, LastLogin: &last})

	e.RunAutoChecks("alice", last.Add(24*time.Hour))
	u := st.FindUser("alice")
	if u.LoginStreak != 7 {
		t.Fatalf("expected streak 7, got %d", u.LoginStreak)
	}
	// 900 xp from login_7_days
	if u.XP != 900 {
		t.Fatalf("expected 900 xp from streak task, got %d", u.XP)
	}
}

func TestRunAutoChecks_BuyThresholds(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "alice"})

	devices := make([]models.Device, 0, 5)
	for i := 0; i < 5; i++ {
		d := activeDevice("alice", 6, 30, 0)
		d.ID = d.ID + string(rune('a'+i))
		d.Active = false
		d.LastTick = nil
		devices = append(devices, d)
	}
	st.SaveDevices(devices)

	e.RunAutoChecks("alice", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	completed := map[string]bool{}
	for _, task := range e.Tasks("alice") {
		if task.Completed {
			completed[task.Condition] = true
		}
	}
	if !completed["buy_3_items"] || !completed["buy_5_items"] {
		t.Fatalf("expected buy_3 and buy_5 granted, got %v", completed)
	}
	if completed["buy_10_items"] {
		t.Fatalf("buy_10_items must not be granted with 5 devices")
	}
}

func TestReconcileDailyTasks(t *testing.T) {
	yesterday := "2025-05-31"
	today := "2025-06-01"
	tasks := []models.TaskState{
		{Condition: "daily_check_in", Daily: true, Completed: true, LastDone: &yesterday},
		{Condition: "first_login", Daily: false, Completed: true, LastDone: &yesterday},
	}
	if !reconcileDailyTasks(tasks, today) {
		t.Fatalf("expected a reset to happen")
	}
	if tasks[0].Completed {
		t.Fatalf("daily task from yesterday must re-open")
	}
	if !tasks[1].Completed {
		t.Fatalf("one-shot task must stay completed")
	}

	doneToday := []models.TaskState{
		{Condition: "daily_check_in", Daily: true, Completed: true, LastDone: &today},
	}
	if reconcileDailyTasks(doneToday, today) {
		t.Fatalf("task completed today must not re-open")
	}
}

func TestTasks_SeededOnFirstSight(t *testing.T) {
	e, st := newTestEngine()
	st.UpdateUser(models.User{Username: "Alice"})

	tasks := e.Tasks("Alice")
	if len(tasks) != 10 {
		t.Fatalf("expected 10 seeded tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Completed {
			t.Fatalf("seeded task %s must start incomplete", task.Condition)
		}
		if task.Username != "alice" {
			t.Fatalf("task key must be normalized, got %q", task.Username)
		}
	}
}
