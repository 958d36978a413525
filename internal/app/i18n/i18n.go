// Package i18n manages the persisted UI language. French is the product's
// default; storage failures fall back to it rather than surfacing an error,
// since a wrong language is recoverable and a crash is not.
package i18n

import (
	"context"

	"github.com/johanthomias/HumDaddy-mobile/internal/app/store"
	"github.com/johanthomias/HumDaddy-mobile/internal/logging"
)

// DefaultLanguage is used until the user picks one.
const DefaultLanguage = store.LanguageFrench

// Service reads and persists the language preference.
type Service struct {
	store store.Store
	log   logging.Logger
}

func NewService(st store.Store, log logging.Logger) *Service {
	return &Service{store: st, log: log}
}

// Current returns the saved language, or the default when unset or when the
// store is unreadable.
func (s *Service) Current(ctx context.Context) store.Language {
	lang, ok, err := s.store.Language(ctx)
	if err != nil {
		s.log.Warn(ctx, "language preference unreadable, using default", "error", err)
		return DefaultLanguage
	}
	if !ok {
		return DefaultLanguage
	}
	return lang
}

// Set persists the preference. Unknown values are rejected by the store.
func (s *Service) Set(ctx context.Context, lang store.Language) error {
	return s.store.SetLanguage(ctx, lang)
}
