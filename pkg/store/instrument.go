package store

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
)

// Instrumented reports every operation of the wrapped Store to the
// registered observability store hooks.
type Instrumented struct {
	Store
}

// Instrument wraps s. Wrapping an already instrumented store returns it as is.
func Instrument(s Store) Store {
	if _, ok := s.(*Instrumented); ok {
		return s
	}
	return &Instrumented{Store: s}
}

func (i *Instrumented) Get(ctx context.Context, user, mapID string) (*mindmap.Record, error) {
	start := time.Now()
	rec, err := i.Store.Get(ctx, user, mapID)
	observability.Store().OnRead(ctx, "get", time.Since(start), err)
	return rec, err
}

func (i *Instrumented) Put(ctx context.Context, user string, rec *mindmap.Record) error {
	start := time.Now()
	err := i.Store.Put(ctx, user, rec)
	observability.Store().OnWrite(ctx, "put", time.Since(start), err)
	return err
}

func (i *Instrumented) Delete(ctx context.Context, user, mapID string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, user, mapID)
	observability.Store().OnWrite(ctx, "delete", time.Since(start), err)
	return err
}

func (i *Instrumented) List(ctx context.Context, user string) ([]*mindmap.Record, error) {
	start := time.Now()
	recs, err := i.Store.List(ctx, user)
	observability.Store().OnRead(ctx, "list", time.Since(start), err)
	return recs, err
}
