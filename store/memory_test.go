package store

import (
	"testing"
	"time"

	"satmine/models"
)

func TestMemoryStore_UpsertAndFind(t *testing.T) {
	st := NewMemoryStore()
	st.UpdateUser(models.User{Username: "alice", Balance: 1})
	st.UpdateUser(models.User{Username: "alice", Balance: 2})

	users := st.LoadUsers()
	if len(users) != 1 {
		t.Fatalf("upsert must not duplicate, got %d users", len(users))
	}
	if u := st.FindUser("alice"); u == nil || u.Balance != 2 {
		t.Fatalf("expected updated balance 2, got %+v", u)
	}
	if st.FindUser("Alice") != nil {
		t.Fatalf("FindUser must be case-sensitive")
	}
}

func TestMemoryStore_LoadReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	st.UpdateUser(models.User{Username: "alice", Balance: 1})

	users := st.LoadUsers()
	users[0].Balance = 99
	if st.FindUser("alice").Balance != 1 {
		t.Fatalf("mutating a loaded slice must not touch the store")
	}
}

func TestMemoryStore_TaskStateKeyNormalization(t *testing.T) {
	st := NewMemoryStore()
	st.SaveTaskStates(map[string][]models.TaskState{
		" Alice ": {{Username: "alice", Condition: "first_login"}},
	})
	states := st.LoadTaskStates()
	if _, ok := states["alice"]; !ok {
		t.Fatalf("keys must be normalized, got %v", states)
	}
}

func TestMemoryStore_DeleteUserCascades(t *testing.T) {
	st := NewMemoryStore()
	st.UpdateUser(models.User{Username: "alice"})
	st.UpdateUser(models.User{Username: "bob"})
	st.SaveDevices([]models.Device{
		{ID: "1_1", Owner: "alice"},
		{ID: "1_2", Owner: "bob"},
	})
	st.SaveTaskStates(map[string][]models.TaskState{
		"alice": {{Username: "alice", Condition: "first_login"}},
		"bob":   {{Username: "bob", Condition: "first_login"}},
	})

	st.DeleteUser("Alice")

	if st.FindUser("alice") != nil {
		t.Fatalf("user must be removed")
	}
	for _, d := range st.LoadDevices() {
		if d.Owner == "alice" {
			t.Fatalf("devices must cascade")
		}
	}
	if _, ok := st.LoadTaskStates()["alice"]; ok {
		t.Fatalf("task state must cascade")
	}
	if st.FindUser("bob") == nil || len(st.LoadDevices()) != 1 {
		t.Fatalf("other users must be untouched")
	}
}

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	k := NewKeyedMutex()
	unlock := k.Lock("alice")
	done := make(chan struct{})
	go func() {
		u := k.Lock("Alice") // same key after normalization
		u()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("second lock never acquired after unlock")
	}
}
