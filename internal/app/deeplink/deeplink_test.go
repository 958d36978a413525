package deeplink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

const (
	testScheme = "humdaddy"
	testPrefix = "https://humdaddy.app/"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Event
		ok   bool
	}{
		{"scheme slash return", "humdaddy://stripe/return", EventReturn, true},
		{"scheme hyphen return", "humdaddy://stripe-return", EventReturn, true},
		{"scheme slash refresh", "humdaddy://stripe/refresh", EventRefresh, true},
		{"scheme hyphen refresh", "humdaddy://stripe-refresh", EventRefresh, true},
		{"https slash return", "https://humdaddy.app/stripe/return", EventReturn, true},
		{"https hyphen refresh", "https://humdaddy.app/stripe-refresh", EventRefresh, true},
		{"trailing slash", "humdaddy://stripe/return/", EventReturn, true},
		{"query string", "https://humdaddy.app/stripe/return?session=abc", EventReturn, true},
		{"unknown path", "humdaddy://settings/profile", "", false},
		{"wrong scheme", "otherapp://stripe/return", "", false},
		{"wrong https host", "https://evil.example/stripe/return", "", false},
		{"empty", "", "", false},
		{"garbage", "::///not a url", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw, testScheme, testPrefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeHandshake struct {
	reconciles int
	expires    int
}

func (f *fakeHandshake) Reconcile(ctx context.Context)     { f.reconciles++ }
func (f *fakeHandshake) HandleExpired(ctx context.Context) { f.expires++ }

func TestRouter_DispatchesReturn(t *testing.T) {
	h := &fakeHandshake{}
	r := NewRouter(testScheme, testPrefix, h, logging.NewNopLogger())

	r.Handle(context.Background(), "humdaddy://stripe/return")

	assert.Equal(t, 1, h.reconciles)
	assert.Equal(t, 0, h.expires)
}

func TestRouter_DispatchesRefresh(t *testing.T) {
	h := &fakeHandshake{}
	r := NewRouter(testScheme, testPrefix, h, logging.NewNopLogger())

	r.Handle(context.Background(), "https://humdaddy.app/stripe-refresh")

	assert.Equal(t, 0, h.reconciles)
	assert.Equal(t, 1, h.expires)
}

func TestRouter_IgnoresUnknownSilently(t *testing.T) {
	h := &fakeHandshake{}
	r := NewRouter(testScheme, testPrefix, h, logging.NewNopLogger())

	r.Handle(context.Background(), "humdaddy://unknown")
	r.Handle(context.Background(), "not a url at all")

	assert.Equal(t, 0, h.reconciles)
	assert.Equal(t, 0, h.expires)
}
