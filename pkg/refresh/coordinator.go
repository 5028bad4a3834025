// Package refresh coordinates single-flight credential refresh across many
// concurrent callers that may observe a stale or rejected credential at the
// same time.
package refresh

import (
	"context"
	"errors"
	"sync"

	"github.com/cecil-the-coder/httpauth-interceptor/pkg/credential"
	"golang.org/x/sync/singleflight"
)

// ErrQueueFull is returned when queueSize callers are already attached to
// an in-flight refresh and a new caller tries to join or start one. Excess callers fail immediately without awaiting the refresh.
var ErrQueueFull = errors.New("refresh: queue full")

// DefaultQueueSize is used when a non-positive queue size is supplied to New.
const DefaultQueueSize = 1

// Coordinator owns the current credential, its generation, and the
// single-flight refresh operation that replaces it. It is safe for
// concurrent use. All state mutation happens under its mutex; provider
// calls are always made outside the critical section.
type Coordinator struct {
	provider  credential.Provider
	queueSize int

	mu          sync.Mutex
	cred        *credential.Credential
	gen         Generation
	initialized bool
	waiters     int

	initGroup    singleflight.Group
	refreshGroup singleflight.Group
}

// New creates a Coordinator for provider. queueSize bounds how many callers
// may simultaneously wait on one refresh, including the caller that starts
// it; a non-positive value falls back to DefaultQueueSize.
func New(provider credential.Provider, queueSize int) *Coordinator {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Coordinator{provider: provider, queueSize: queueSize}
}

// EnsureInitialized loads the initial credential the first time it is
// called and is a no-op on every subsequent call, even if the first call is
// still in flight — concurrent callers share the single LoadInitial result.
// If LoadInitial fails, the coordinator remains uninitialized so a later
// call may retry.
func (c *Coordinator) EnsureInitialized(ctx context.Context) (*credential.Credential, Generation, error) {
	c.mu.Lock()
	if c.initialized {
		cred, gen := c.cred, c.gen
		c.mu.Unlock()
		return cred, gen, nil
	}
	c.mu.Unlock()

	ch := c.initGroup.DoChan("init", func() (interface{}, error) {
		c.mu.Lock()
		if c.initialized {
			cred := c.cred
			c.mu.Unlock()
			return cred, nil
		}
		c.mu.Unlock()

		cred, err := c.provider.LoadInitial(context.Background())
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cred = cred
		c.initialized = true
		c.mu.Unlock()
		return cred, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, 0, credential.NewLoadError(res.Err)
		}
		cred, _ := res.Val.(*credential.Credential)
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()
		return cred, gen, nil
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

// Snapshot atomically reads the current credential and generation.
func (c *Coordinator) Snapshot() (*credential.Credential, Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cred, c.gen
}

// refreshResult is the value carried through the refresh singleflight group;
// it lets every caller learn both the new credential and the generation it
// now belongs to without a second Snapshot call racing a later refresh.
type refreshResult struct {
	cred *credential.Credential
	gen  Generation
}

// Refresh replaces the current credential on behalf of a caller that
// observed generation stale. If the current generation has already moved
// past stale, Refresh is a no-op: the caller simply gets the newer
// credential and the provider is never called. Otherwise Refresh either
// starts the provider refresh (if none is in flight) or attaches to the one
// already running, sharing its outcome. A caller whose context is canceled
// while waiting detaches without affecting other waiters or the refresh
// itself, which always runs to completion.
func (c *Coordinator) Refresh(ctx context.Context, stale Generation) (*credential.Credential, Generation, error) {
	c.mu.Lock()
	if c.gen > stale {
		cred, gen := c.cred, c.gen
		c.mu.Unlock()
		return cred, gen, nil
	}
	if c.waiters >= c.queueSize {
		c.mu.Unlock()
		return nil, 0, ErrQueueFull
	}
	c.waiters++
	c.mu.Unlock()

	ch := c.refreshGroup.DoChan("refresh", func() (interface{}, error) {
		c.mu.Lock()
		if c.gen > stale {
			// A flight that finished after this caller's check already
			// replaced the stale credential.
			c.waiters = 0
			result := refreshResult{cred: c.cred, gen: c.gen}
			c.mu.Unlock()
			return result, nil
		}
		var previous *string
		if c.cred != nil {
			v := c.cred.Value
			previous = &v
		}
		c.mu.Unlock()

		newCred, err := c.provider.Refresh(context.Background(), previous)

		c.mu.Lock()
		c.waiters = 0
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.cred = newCred
		c.gen++
		result := refreshResult{cred: c.cred, gen: c.gen}
		c.mu.Unlock()
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, 0, credential.NewRefreshError(res.Err)
		}
		rr := res.Val.(refreshResult)
		return rr.cred, rr.gen, nil
	case <-ctx.Done():
		c.mu.Lock()
		if c.waiters > 0 {
			c.waiters--
		}
		c.mu.Unlock()
		return nil, 0, ctx.Err()
	}
}
