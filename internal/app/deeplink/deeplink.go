// Package deeplink turns incoming URLs into handshake events. Both the
// custom scheme (app://stripe/return) and the https universal-link prefix
// are accepted, in slash and hyphen form; anything else is ignored.
package deeplink

import (
	"context"
	"net/url"
	"strings"

	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// Event is a recognized deep-link intent.
type Event string

const (
	// EventReturn signals the user came back from the hosted onboarding
	// flow and the account status should be reconciled.
	EventReturn Event = "stripe_return"

	// EventRefresh signals the hosted link expired and a fresh one is
	// needed.
	EventRefresh Event = "stripe_refresh"
)

// Parse maps a raw URL onto an Event. scheme is the custom app scheme
// without "://"; httpsPrefix is the universal-link prefix including its
// trailing slash. The second return is false for URLs that carry no known
// intent.
func Parse(raw, scheme, httpsPrefix string) (Event, bool) {
	path, ok := intentPath(raw, scheme, httpsPrefix)
	if !ok {
		return "", false
	}

	switch path {
	case "stripe/return", "stripe-return":
		return EventReturn, true
	case "stripe/refresh", "stripe-refresh":
		return EventRefresh, true
	}
	return "", false
}

// intentPath extracts the routable part of the URL, normalized to
// "segment" or "segment/segment" form without leading slash or query.
func intentPath(raw, scheme, httpsPrefix string) (string, bool) {
	if httpsPrefix != "" && strings.HasPrefix(raw, httpsPrefix) {
		rest := strings.TrimPrefix(raw, httpsPrefix)
		return trimURLTail(rest), true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if scheme != "" && u.Scheme == scheme {
		// With a custom scheme the first segment parses as the host:
		// app://stripe/return → host "stripe", path "/return".
		path := u.Host + u.Path
		return strings.Trim(path, "/"), true
	}
	return "", false
}

func trimURLTail(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, "/")
}

// Handshake is the slice of the reconciler the router dispatches to.
type Handshake interface {
	Reconcile(ctx context.Context)
	HandleExpired(ctx context.Context)
}

// Router dispatches parsed deep-link events to the handshake reconciler.
type Router struct {
	scheme      string
	httpsPrefix string
	handshake   Handshake
	log         logging.Logger
}

func NewRouter(scheme, httpsPrefix string, handshake Handshake, log logging.Logger) *Router {
	return &Router{
		scheme:      scheme,
		httpsPrefix: httpsPrefix,
		handshake:   handshake,
		log:         log,
	}
}

// Handle routes one incoming URL. Unrecognized URLs are logged at debug
// level and dropped; they must never crash or surface an error to the user.
func (r *Router) Handle(ctx context.Context, raw string) {
	event, ok := Parse(raw, r.scheme, r.httpsPrefix)
	if !ok {
		r.log.Debug(ctx, "ignoring unrecognized deep link", "url", raw)
		return
	}

	r.log.Info(ctx, "deep link received", "event", string(event))
	switch event {
	case EventReturn:
		r.handshake.Reconcile(ctx)
	case EventRefresh:
		r.handshake.HandleExpired(ctx)
	}
}
