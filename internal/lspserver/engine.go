package lspserver

import (
	"github.com/rime-ls/rime-ls/internal/inputstate"
	"github.com/rime-ls/rime-ls/internal/rime"
)

// Engine is everything the Facade drives on the native side: the subset
// the Input State Machine needs (inputstate.Engine) plus the two
// operations the Facade itself calls directly. *rime.Adapter satisfies
// this already; it is expressed as an interface here so server_test.go
// can exercise the Facade against a fake.
type Engine interface {
	inputstate.Engine
	GetResponse(sessionID uint, maxCandidates int) (rime.Response, error)
	SyncUserData()
}

// EngineFactory initializes the native engine from a set of expanded
// directories, mirroring Rime::init in the source. Production code wires
// this to rime.Init; tests substitute a factory that builds a fake.
type EngineFactory func(sharedDataDir, userDataDir, logDir string) (Engine, error)

// DefaultEngineFactory adapts rime.Init to EngineFactory.
func DefaultEngineFactory(sharedDataDir, userDataDir, logDir string) (Engine, error) {
	return rime.Init(sharedDataDir, userDataDir, logDir)
}
