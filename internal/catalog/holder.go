package catalog

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	ErrLoading = errors.New("player data is still loading")
	ErrNoData  = errors.New("no player data available")
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type holderState struct {
	status  Status
	catalog *Catalog
	err     error
}

// Holder publishes the result of a single background load to concurrent readers.
type Holder struct {
	state atomic.Pointer[holderState]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.state.Store(&holderState{status: StatusLoading})
	return h
}

// Ready returns a Holder that already carries cat.
func Ready(cat *Catalog) *Holder {
	h := &Holder{}
	h.Set(cat, nil)
	return h
}

// Set publishes a load result.
func (h *Holder) Set(cat *Catalog, err error) {
	if err != nil || cat == nil {
		if err == nil {
			err = ErrNoData
		}
		h.state.Store(&holderState{status: StatusFailed, err: err})
		return
	}
	h.state.Store(&holderState{status: StatusReady, catalog: cat})
}

// Start runs load in the background and publishes its result.
func (h *Holder) Start(ctx context.Context, load func(context.Context) (*Catalog, error)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Set(load(ctx))
	}()
	return done
}

func (h *Holder) Status() Status {
	return h.state.Load().status
}

// Catalog returns the snapshot, ErrLoading while the load is in flight, or
// ErrNoData joined with the load error once it failed.
func (h *Holder) Catalog() (*Catalog, error) {
	st := h.state.Load()
	switch st.status {
	case StatusReady:
		return st.catalog, nil
	case StatusLoading:
		return nil, ErrLoading
	}
	return nil, errors.Join(ErrNoData, st.err)
}
