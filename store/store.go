package store

import (
	"strings"

	"satmine/models"
)

// Store is the persistence contract for the three game collections. Loads
// substitute an empty collection when the backing storage is absent or
// unreadable, they never fail the request. Saves overwrite the whole
// collection; callers are expected to serialize read-modify-write sequences
// per user (see KeyedMutex).
type Store interface {
	LoadUsers() []models.User
	SaveUsers(users []models.User)
	LoadDevices() []models.Device
	SaveDevices(devices []models.Device)
	// Task states are keyed by normalized (lowercase) username.
	LoadTaskStates() map[string][]models.TaskState
	SaveTaskStates(states map[string][]models.TaskState)

	// FindUser returns a copy of the user with the exact (trimmed) username,
	// or nil when absent.
	FindUser(username string) *models.User
	// UpdateUser upserts by username.
	UpdateUser(user models.User)
	// DeleteUser removes the user, every device they own and their task
	// state. Other users' records are untouched.
	DeleteUser(username string)

	// AppendTransaction adds a row to the append-only ledger.
	AppendTransaction(tx models.Transaction)
	LoadTransactions(username string) []models.Transaction
}

// NormalizeUsername is the canonical key form used for task state and locks.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
