// Package syncutils provides synchronization objects for an app-wide usage.

package syncutils

import (
	"context"
	"sync"
)

// SyncUtils holds the app-wide context and the wait group of background routines bound to it.
type SyncUtils struct {
	Wg         *sync.WaitGroup
	Ctx        context.Context
	SyncCancel context.CancelFunc
}

// Go runs fn in a goroutine tracked by Wg.
func (s *SyncUtils) Go(fn func(ctx context.Context)) {
	s.Wg.Add(1)
	go func() {
		defer s.Wg.Done()
		fn(s.Ctx)
	}()
}

// Shutdown cancels the app-wide context and waits for tracked routines.
func (s *SyncUtils) Shutdown() {
	s.SyncCancel()
	s.Wg.Wait()
}

// NewSyncUtils initializes a new SyncUtils object.
func NewSyncUtils() *SyncUtils {
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncUtils{
		Wg:         &sync.WaitGroup{},
		Ctx:        ctx,
		SyncCancel: cancel,
	}
}
