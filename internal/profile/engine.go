package profile

import (
	"github.com/aipdev/aip/internal/backend"
	"github.com/aipdev/aip/internal/log"
	"github.com/aipdev/aip/internal/tool"
)

// Outcome reports the result of a switch request.
type Outcome struct {
	// Switched is true when the target profile was activated.
	Switched bool
	// Sync is the state the checker observed before applying.
	Sync SyncState
	// Marker is the marker value at check time ("" if none).
	Marker string
}

// Blocked reports whether the switch was refused pending confirmation.
func (o *Outcome) Blocked() bool { return !o.Switched }

// Engine orchestrates save, switch, and delete for one tool.
type Engine struct {
	b     backend.Backend
	store *Store
}

// NewEngine creates an engine over the given backend.
func NewEngine(b backend.Backend) *Engine {
	return &Engine{b: b, store: NewStore(b)}
}

// ForTool creates an engine for the given tool's default backend.
func ForTool(t tool.Tool) *Engine {
	return NewEngine(backend.For(t))
}

// Store exposes the engine's profile store.
func (e *Engine) Store() *Store { return e.store }

// Tool identifies the tool this engine serves.
func (e *Engine) Tool() tool.Tool { return e.b.Tool() }

// Switch activates the named profile.
//
// The sync checker runs first. If it reports drift, or a dangling marker,
// the switch is refused unless confirm is set: the caller must obtain the
// user's explicit consent before an active credential that matches nothing
// we saved is overwritten. The returned Outcome carries the observed state
// either way.
//
// Applying is a two-step write (active credential, then marker). If the
// process dies between the two, the stale marker shows up as drift on the
// next check and blocks again; that re-block is the recovery path.
func (e *Engine) Switch(name string, confirm bool) (*Outcome, error) {
	if err := tool.ValidateName(name); err != nil {
		return nil, err
	}

	state, marker, err := CheckSync(e.b)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Sync: state, Marker: marker}

	if (state == SyncDrifted || state == SyncMarkerDangling) && !confirm {
		log.Debug("switch blocked", "tool", e.Tool().Key(), "target", name, "sync", state.String())
		return outcome, nil
	}

	cred, err := e.b.ReadProfile(name)
	if err != nil {
		return nil, err
	}
	if err := e.b.WriteActive(cred); err != nil {
		return nil, err
	}
	if err := e.b.WriteMarker(name); err != nil {
		return nil, err
	}

	log.Debug("switched profile", "tool", e.Tool().Key(), "profile", name, "sync", state.String())
	outcome.Switched = true
	return outcome, nil
}

// SaveAndActivate captures the active credential under name and points the
// marker at it. No drift check runs: the active credential is itself the
// source of truth being captured, so there is nothing to lose.
func (e *Engine) SaveAndActivate(name string) error {
	if err := tool.ValidateName(name); err != nil {
		return err
	}

	cred, err := e.b.ReadActive()
	if err != nil {
		return err
	}
	if err := e.b.WriteProfile(name, cred); err != nil {
		return err
	}

	if prev, err := e.b.ReadMarker(); err == nil && prev != "" && prev != name {
		log.Debug("marker re-pointed", "tool", e.Tool().Key(), "from", prev, "to", name)
	}
	return e.b.WriteMarker(name)
}

// Delete removes a saved profile, refusing the current one.
func (e *Engine) Delete(name string) error {
	return e.store.Delete(name)
}
