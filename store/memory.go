package store

import (
	"strings"
	"sync"

	"satmine/models"
)

// MemoryStore keeps all collections in process memory. It backs the engine
// tests and works as a standalone store for single-process deployments where
// durability does not matter.
type MemoryStore struct {
	mu           sync.Mutex
	users        []models.User
	devices      []models.Device
	taskStates   map[string][]models.TaskState
	transactions []models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{taskStates: make(map[string][]models.TaskState)}
}

func (s *MemoryStore) LoadUsers() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *MemoryStore) SaveUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]models.User, len(users))
	copy(s.users, users)
}

func (s *MemoryStore) LoadDevices() []models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Device, len(s.devices))
	copy(out, s.devices)
	return out
}

func (s *MemoryStore) SaveDevices(devices []models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = make([]models.Device, len(devices))
	copy(s.devices, devices)
}

func (s *MemoryStore) LoadTaskStates() map[string][]models.TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]models.TaskState, len(s.taskStates))
	for k, v := range s.taskStates {
		states := make([]models.TaskState, len(v))
		copy(states, v)
		out[k] = states
	}
	return out
}

func (s *MemoryStore) SaveTaskStates(states map[string][]models.TaskState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStates = make(map[string][]models.TaskState, len(states))
	for k, v := range states {
		copied := make([]models.TaskState, len(v))
		copy(copied, v)
		s.taskStates[NormalizeUsername(k)] = copied
	}
}

func (s *MemoryStore) FindUser(username string) *models.User {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if strings.TrimSpace(s.users[i].Username) == username {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

func (s *MemoryStore) UpdateUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if strings.TrimSpace(s.users[i].Username) == strings.TrimSpace(user.Username) {
			s.users[i] = user
			return
		}
	}
	s.users = append(s.users, user)
}

func (s *MemoryStore) DeleteUser(username string) {
	key := NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users[:0]
	for _, u := range s.users {
		if NormalizeUsername(u.Username) != key {
			users = append(users, u)
		}
	}
	s.users = users

	devices := s.devices[:0]
	for _, d := range s.devices {
		if NormalizeUsername(d.Owner) != key {
			devices = append(devices, d)
		}
	}
	s.devices = devices

	delete(s.taskStates, key)
}

func (s *MemoryStore) AppendTransaction(tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uint(len(s.transactions) + 1)
	s.transactions = append(s.transactions, tx)
}

func (s *MemoryStore) LoadTransactions(username string) []models.Transaction {
	key := NormalizeUsername(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.transactions {
		if NormalizeUsername(tx.Username) == key {
			out = append(out, tx)
		}
	}
	return out
}
