// Package app wires the client together: secure store, backend client,
// session machine, auto-save, payment handshake and deep-link routing.
package app

import (
	"context"
	"database/sql"

	"github.com/pkg/browser"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/api"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/autosave"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/config"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/connect"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/deeplink"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/gifts"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/i18n"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/session"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/store"
	"github.com/johanthomias/HumDaddy-mobile/internal/app/wallet"
	"github.com/johanthomias/HumDaddy-mobile/internal/filex"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// systemBrowser opens URLs with the OS default handler.
type systemBrowser struct{}

func (systemBrowser) Open(url string) error { return browser.OpenURL(url) }

// App owns every service of the client and their shared dependencies.
type App struct {
	Config *config.Config
	Log    logging.Logger

	Store store.Store
	API   api.Client

	Session   *session.Service
	Autosave  *autosave.Synchronizer
	Connect   *connect.Reconciler
	DeepLinks *deeplink.Router
	Wallet    *wallet.Service
	Gifts     *gifts.Service
	I18n      *i18n.Service

	db *sql.DB
}

// New builds the full service graph. The sqlite driver must be registered by
// the caller (blank import at the binary's main).
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDataDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := store.OpenDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(db, dir)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, st, log)

	sess := session.NewService(st, client, log, nil)

	sync := autosave.New(client, sess, log, nil, autosave.Options{
		DebounceWindow:   cfg.DebounceWindow,
		SavedRevertDelay: cfg.SavedRevertDelay,
		ErrorRevertDelay: cfg.ErrorRevertDelay,
	})

	rec := connect.NewReconciler(client, systemBrowser{}, sess, log, nil)
	router := deeplink.NewRouter(cfg.DeepLinkScheme, cfg.DeepLinkHTTPSPrefix, rec, log)

	return &App{
		Config:    cfg,
		Log:       log,
		Store:     st,
		API:       client,
		Session:   sess,
		Autosave:  sync,
		Connect:   rec,
		DeepLinks: router,
		Wallet:    wallet.NewService(client, log, cfg.MinPayoutCents),
		Gifts:     gifts.NewService(client, log),
		I18n:      i18n.NewService(st, log),
		db:        db,
	}, nil
}

// Start restores the persisted session. Call once after New.
func (a *App) Start(ctx context.Context) {
	a.Session.Restore(ctx)
}

// Logout flushes nothing: pending auto-save edits belong to the signed-in
// user and are dropped together with the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Session.Logout(ctx); err != nil {
		return err
	}
	a.Connect.Reset()
	return nil
}

// Close releases the auto-save timers and the database handle.
func (a *App) Close() error {
	a.Autosave.Close()
	return a.db.Close()
}
