package credential

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCredentialValid(t *testing.T) {
	now := time.Unix(1000, 0)

	tests := []struct {
		name string
		cred *Credential
		want bool
	}{
		{"nil credential", nil, false},
		{"expired", New("tok", now.Add(-time.Second)), false},
		{"exactly now is expired", New("tok", now), false},
		{"future", New("tok", now.Add(time.Second)), true},
		{"never expires", New("tok", time.Time{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	underlying := errors.New("invalid token")
	err := NewRefreshError(underlying)

	if !errors.Is(err, underlying) {
		t.Errorf("expected errors.Is to unwrap to underlying error")
	}
	if !IsRefreshError(err) {
		t.Errorf("expected IsRefreshError to be true")
	}
	if IsLoadError(err) {
		t.Errorf("expected IsLoadError to be false")
	}

	loadErr := NewLoadError(underlying)
	if !IsLoadError(loadErr) {
		t.Errorf("expected IsLoadError to be true")
	}
}

func TestProviderFuncDefaultsLoadInitialToNil(t *testing.T) {
	var refreshCalls int
	p := ProviderFunc(func(ctx context.Context, previous *string) (*Credential, error) {
		refreshCalls++
		return New("refreshed", time.Time{}), nil
	})

	loaded, err := p.LoadInitial(context.Background())
	if err != nil || loaded != nil {
		t.Fatalf("LoadInitial() = (%v, %v), want (nil, nil)", loaded, err)
	}

	cred, err := p.Refresh(context.Background(), nil)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if cred.Value != "refreshed" || refreshCalls != 1 {
		t.Fatalf("Refresh() = %+v, calls=%d", cred, refreshCalls)
	}
}
