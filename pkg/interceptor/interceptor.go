// Package interceptor attaches a bearer credential to outbound HTTP
// requests and coordinates its refresh across concurrent requests that
// observe the same rejection or the same expired credential.
package interceptor

import (
	"net/http"

	"github.com/cecil-the-coder/httpauth-interceptor/pkg/credential"
	"github.com/cecil-the-coder/httpauth-interceptor/pkg/refresh"
)

// Option configures an Interceptor at construction time.
type Option func(*Interceptor)

// WithQueueSize bounds how many requests may wait on one in-flight refresh.
// Requests beyond this bound fail immediately with refresh.ErrQueueFull
// instead of waiting. The default is refresh.DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(i *Interceptor) {
		i.queueSize = n
	}
}

// WithRejectionPolicy overrides the policy used to decide whether a
// response counts as a credential rejection. The default is
// DefaultRejectionPolicy.
func WithRejectionPolicy(p RejectionPolicy) Option {
	return func(i *Interceptor) {
		i.policy = p
	}
}

// Interceptor is an http.RoundTripper that decorates requests with a bearer
// credential obtained from a credential.Provider, forwards them to next,
// and on a rejected response coordinates exactly one shared refresh and
// retry before returning.
type Interceptor struct {
	next      http.RoundTripper
	coord     *refresh.Coordinator
	policy    RejectionPolicy
	queueSize int
}

// New creates an Interceptor that attaches credentials from provider and
// forwards requests to next. next defaults to http.DefaultTransport if nil.
func New(provider credential.Provider, next http.RoundTripper, opts ...Option) *Interceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	i := &Interceptor{
		next:   next,
		policy: DefaultRejectionPolicy,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.coord = refresh.New(provider, i.queueSize)
	return i
}

// RoundTrip implements http.RoundTripper. It ensures the credential is
// initialized, proactively refreshes an expired credential before the
// first forward, decorates and forwards the request, and on a rejected
// response refreshes once more and retries exactly once.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if _, _, err := i.coord.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	cred, gen := i.coord.Snapshot()

	if cred != nil && !cred.Valid(nowFunc()) {
		newCred, newGen, err := i.coord.Refresh(ctx, gen)
		if err != nil {
			return nil, err
		}
		cred, gen = newCred, newGen
	}

	resp, err := i.forward(req, cred)
	if err != nil {
		return nil, err
	}

	hadCredential := cred != nil
	if !i.policy(resp, hadCredential) {
		return resp, nil
	}

	newCred, _, err := i.coord.Refresh(ctx, gen)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body.Close()
	}

	return i.forward(req, newCred)
}

// forward clones req, attaches cred if present, and calls next. The clone
// keeps retries from mutating the caller's original request.
func (i *Interceptor) forward(req *http.Request, cred *credential.Credential) (*http.Response, error) {
	outReq := req.Clone(req.Context())
	if cred != nil {
		outReq.Header.Set("Authorization", "Bearer "+cred.Value)
	}
	return i.next.RoundTrip(outReq)
}
