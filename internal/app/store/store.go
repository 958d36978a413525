// Package store implements the secure session store: a small key/value
// surface over a local SQLite database that survives process restarts. The
// auth token is sealed at rest with a per-install key.
package store

import (
	"context"
)

// Language is the persisted UI language preference.
type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// Store is the persistence contract for session state. Missing keys read as
// "unset", never as errors; operational failures surface as
// *common.StorageError and callers fail closed ("no session").
type Store interface {
	// SaveSession records that a session exists and, when token is
	// non-empty, seals and persists it.
	SaveSession(ctx context.Context, token string) error

	// HasSession reports whether a session flag is persisted.
	HasSession(ctx context.Context) (bool, error)

	// Token returns the unsealed auth token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// SetOnboardingCompleted persists the one-way onboarding flag.
	SetOnboardingCompleted(ctx context.Context, completed bool) error

	// OnboardingCompleted reads the onboarding flag; missing means false.
	OnboardingCompleted(ctx context.Context) (bool, error)

	// Language returns the saved language preference, ok=false when unset.
	Language(ctx context.Context) (Language, bool, error)

	// SetLanguage persists the language preference.
	SetLanguage(ctx context.Context, lang Language) error

	// ClearAll wipes every persisted session value (logout).
	ClearAll(ctx context.Context) error
}
