package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"satmine/catalog"
	"satmine/models"
	"satmine/store"
	"satmine/utils"
)

const dateLayout = "2006-01-02"

// seedTasks copies the task templates into a fresh per-user task list.
func seedTasks(username string) []models.TaskState {
	key := store.NormalizeUsername(username)
	out := make([]models.TaskState, 0, len(catalog.Tasks))
	for _, t := range catalog.Tasks {
		out = append(out, models.TaskState{
			Username:   key,
			Title:      t.Title,
			Reward:     t.Reward,
			RewardType: t.RewardType,
			Condition:  t.Condition,
			Daily:      t.Daily,
		})
	}
	return out
}

// conditionMet is the single predicate table for task conditions. Unknown
// identifiers are never satisfied.
func conditionMet(user *models.User, devicesOwned int, condition string) (bool, string) {
	switch {
	case condition == "first_login":
		return true, ""
	case strings.HasPrefix(condition, "buy_") && strings.HasSuffix(condition, "_items"):
		raw := strings.TrimSuffix(strings.TrimPrefix(condition, "buy_"), "_items")
		needed, err := strconv.Atoi(raw)
		if err != nil || needed <= 0 {
			return false, "unknown task condition"
		}
		if devicesOwned >= needed {
			return true, ""
		}
		return false, fmt.Sprintf("you need to own %d devices first", needed)
	case condition == "login_7_days":
		if user.LoginStreak >= 7 {
			return true, ""
		}
		return false, "log in 7 days in a row first"
	case condition == "login_30_days":
		if user.LoginStreak >= 30 {
			return true, ""
		}
		return false, "log in 30 days in a row first"
	}
	return false, "unknown task condition"
}

// grantReward applies a completed task's reward to the user in place.
func grantReward(user *models.User, task *models.TaskState, today string) {
	task.Completed = true
	task.LastDone = &today
	switch task.RewardType {
	case catalog.RewardCurrency:
		user.Balance = utils.RoundBTC(user.Balance + task.Reward)
	case catalog.RewardExperience:
		user.XP += int(task.Reward)
		user.Rank = RankOf(user.XP)
	}
}

// reconcileDailyTasks re-opens daily tasks whose last completion was not
// today. This is the only path by which a completed task becomes
// re-completable.
func reconcileDailyTasks(tasks []models.TaskState, today string) bool {
	changed := false
	for i := range tasks {
		if !tasks[i].Daily || !tasks[i].Completed {
			continue
		}
		if tasks[i].LastDone == nil || *tasks[i].LastDone != today {
			tasks[i].Completed = false
			changed = true
		}
	}
	return changed
}

type TaskResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// CompleteTask evaluates one task's condition for the user and grants its
// reward when met. A task already marked completed is rejected before any
// mutation, which is the double-reward guard.
func (e *Engine) CompleteTask(username, condition string, now time.Time) TaskResult {
	unlock := e.locks.Lock(username)
	defer unlock()
	return e.completeTaskLocked(username, condition, now)
}

func (e *Engine) completeTaskLocked(username, condition string, now time.Time) TaskResult {
	user := e.st.FindUser(username)
	if user == nil {
		return TaskResult{OK: false, Message: "user not found"}
	}

	key := store.NormalizeUsername(username)
	states := e.st.LoadTaskStates()
	tasks, ok := states[key]
	if !ok {
		tasks = seedTasks(username)
		states[key] = tasks
	}

	idx := -1
	for i := range tasks {
		if tasks[i].Condition == condition {
			idx = i
			break
		}
	}
	if idx < 0 {
		return TaskResult{OK: false, Message: "task not found"}
	}
	if tasks[idx].Completed {
		return TaskResult{OK: false, Message: "task already completed"}
	}

	devicesOwned := e.countDevices(user.Username)
	met, failMsg := conditionMet(user, devicesOwned, condition)
	if !met {
		return TaskResult{OK: false, Message: failMsg}
	}

	today := now.Format(dateLayout)
	grantReward(user, &tasks[idx], today)
	states[key] = tasks

	// Both writes belong to one logical grant; the per-user lock keeps other
	// request handlers from observing the gap between them.
	e.st.SaveTaskStates(states)
	e.st.UpdateUser(*user)
	if tasks[idx].RewardType == catalog.RewardCurrency {
		e.st.AppendTransaction(models.Transaction{
			Username: key,
			Amount:   tasks[idx].Reward,
			OrderID:  utils.GenerateOrderID(user.Username),
			Flow:     "credit",
			Type:     "task_reward",
			Message:  utils.PtrString("Task reward: " + tasks[idx].Title),
		})
	}

	return TaskResult{OK: true, Message: "task completed: " + tasks[idx].Title}
}

// Tasks returns the user's task list, seeding it from the templates on first
// sight of the user.
func (e *Engine) Tasks(username string) []models.TaskState {
	unlock := e.locks.Lock(username)
	defer unlock()

	key := store.NormalizeUsername(username)
	states := e.st.LoadTaskStates()
	tasks, ok := states[key]
	if !ok {
		tasks = seedTasks(username)
		states[key] = tasks
		e.st.SaveTaskStates(states)
	}
	return tasks
}

// RunAutoChecks performs the once-per-session-activity bookkeeping: daily
// task reset, automatic completions, and the login-streak update. It returns
// the messages for tasks granted along the way.
func (e *Engine) RunAutoChecks(username string, now time.Time) []string {
	unlock := e.locks.Lock(username)
	defer unlock()

	user := e.st.FindUser(username)
	if user == nil {
		return nil
	}

	key := store.NormalizeUsername(username)
	states := e.st.LoadTaskStates()
	tasks, ok := states[key]
	if !ok {
		tasks = seedTasks(username)
	}
	today := now.Format(dateLayout)
	if reconcileDailyTasks(tasks, today) || !ok {
		states[key] = tasks
		e.st.SaveTaskStates(states)
	}

	var messages []string
	attempt := func(condition string) {
		if res := e.completeTaskLocked(username, condition, now); res.OK {
			messages = append(messages, res.Message)
		}
	}

	attempt("first_login")

	owned := e.countDevices(user.Username)
	for _, n := range catalog.BuyThresholds {
		if owned >= n {
			attempt(fmt.Sprintf("buy_%d_items", n))
		}
	}

	// Streak update. A gap of any length counts as one more consecutive day;
	// the original behaved this way and players' streaks depend on it.
	user = e.st.FindUser(username) // re-read, completions above may have changed it
	if user == nil {
		return messages
	}
	if user.LastLogin == nil {
		user.LoginStreak = 1
	} else if daysBetween(*user.LastLogin, now) >= 1 {
		user.LoginStreak++
	}
	e.st.UpdateUser(*user)

	if user.LoginStreak >= 7 {
		attempt("login_7_days")
	}
	if user.LoginStreak >= 30 {
		attempt("login_30_days")
	}

	user = e.st.FindUser(username)
	if user != nil {
		stamp := now
		user.LastLogin = &stamp
		e.st.UpdateUser(*user)
	}
	return messages
}

func (e *Engine) countDevices(owner string) int {
	count := 0
	for _, d := range e.st.LoadDevices() {
		if d.Owner == owner {
			count++
		}
	}
	return count
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
