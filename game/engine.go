package game

import (
	"satmine/store"
)

// Engine owns every balance/xp/rank mutation in the game. All operations
// acquire the per-username lock before touching the store, so concurrent
// requests for the same user cannot overwrite each other's writes.
type Engine struct {
	st    store.Store
	locks *store.KeyedMutex
}

func New(st store.Store) *Engine {
	return &Engine{st: st, locks: store.NewKeyedMutex()}
}

var defaultEngine *Engine

// Init wires the process-wide engine used by the HTTP controllers.
func Init(st store.Store) {
	defaultEngine = New(st)
}

func Default() *Engine {
	return defaultEngine
}

// Store exposes the underlying store for read-only handler paths
// (leaderboards, transaction history).
func (e *Engine) Store() store.Store {
	return e.st
}
