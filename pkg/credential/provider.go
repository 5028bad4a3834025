package credential

import "context"

// Provider loads and refreshes credentials on behalf of the interceptor.
// Neither method is guaranteed idempotent by the provider; the coordinator
// in pkg/refresh guarantees each is invoked at most once per generation.
type Provider interface {
	// LoadInitial is called at most once, lazily, on the first request.
	// It may return (nil, nil) when no credential should be attached until
	// the first rejection triggers a refresh.
	LoadInitial(ctx context.Context) (*Credential, error)

	// Refresh is called once per refresh generation. previous is the
	// credential value of the generation being superseded, or nil if no
	// credential was ever set. A successful refresh never returns nil.
	Refresh(ctx context.Context, previous *string) (*Credential, error)
}

// ProviderFunc adapts a plain refresh function to a Provider whose
// LoadInitial always returns (nil, nil) — useful for providers that only
// need to implement refresh behavior, e.g. in tests and examples.
type ProviderFunc func(ctx context.Context, previous *string) (*Credential, error)

// LoadInitial implements Provider by returning no initial credential.
func (ProviderFunc) LoadInitial(ctx context.Context) (*Credential, error) {
	return nil, nil
}

// Refresh implements Provider by invoking the wrapped function.
func (f ProviderFunc) Refresh(ctx context.Context, previous *string) (*Credential, error) {
	return f(ctx, previous)
}
