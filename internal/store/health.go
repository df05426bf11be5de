package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/config"
)

// Status is the single source of truth for "are we online" shown in the UI.
type Status struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// Health owns the connectivity status and the remote handle. It is the one
// piece of process-wide mutable state; everything else routes through it.
// The handle is only ever cleared after the status has been flipped to
// disconnected, so a reader never observes "connected" with no handle.
type Health struct {
	mu     sync.RWMutex
	status Status
	remote Remote
}

const probeTimeout = 10 * time.Second

// Connect builds the health monitor from configuration. With no database
// credentials it settles immediately into local-only mode. Otherwise the
// remote handle is exposed optimistically while read/write probes run in the
// background; any probe failure demotes to local-only and discards the
// handle.
func Connect(cfg config.DatabaseConfig) *Health {
	h := &Health{}

	if cfg.URL == "" && cfg.Host == "" {
		h.status = Status{Connected: false, Error: "No credentials configured"}
		log.Println("No remote database configured, using local storage only")
		return h
	}

	remote, err := OpenRemote(cfg)
	if err != nil {
		serr := Classify(err)
		h.status = Status{Connected: false, Error: serr.Message}
		log.Printf("Remote database unavailable (%s): %v", serr.Kind, err)
		return h
	}

	h.status = Status{Connected: true}
	h.remote = remote
	go h.verify(remote)
	return h
}

// NewHealth wires a pre-built remote (or nil for local-only). Used by the
// composition root in tests and by anything that manages its own connection.
func NewHealth(remote Remote) *Health {
	h := &Health{}
	if remote == nil {
		h.status = Status{Connected: false, Error: "No credentials configured"}
		return h
	}
	h.status = Status{Connected: true}
	h.remote = remote
	return h
}

func (h *Health) verify(remote Remote) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := remote.ProbeRead(ctx); err != nil {
		h.drop(err, "read probe")
		return
	}
	if err := remote.ProbeWrite(ctx); err != nil {
		h.drop(err, "write probe")
		return
	}
	h.MarkConnected()
	log.Println("Remote database verified (read/write)")
}

func (h *Health) drop(err error, what string) {
	serr := Classify(err)
	log.Printf("Remote %s failed (%s), switching to local storage: %v", what, serr.Kind, err)
	h.mu.Lock()
	// status first, then the handle
	h.status = Status{Connected: false, Error: serr.Message}
	h.remote = nil
	h.mu.Unlock()
}

// Status returns a copy of the current connectivity state.
func (h *Health) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Remote returns the live handle, or nil when operating local-only.
func (h *Health) Remote() Remote {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.remote
}

// MarkConnected records a successful remote operation (self-healing).
func (h *Health) MarkConnected() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.remote != nil {
		h.status = Status{Connected: true}
	}
}

// MarkDisconnected records a failed remote operation without discarding the
// handle; later successes flip the status back.
func (h *Health) MarkDisconnected(serr *StoreError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = Status{Connected: false, Error: serr.Message}
}

