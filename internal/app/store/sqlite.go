package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johanthomias/HumDaddy-mobile/internal/common"
	"github.com/johanthomias/HumDaddy-mobile/internal/cryptox"
	"github.com/johanthomias/HumDaddy-mobile/internal/dbx"
)

// Persisted keys. No schema versioning: consumers treat missing keys as
// "unset".
const (
	keySessionExists       = "session_exists"
	keyAuthToken           = "auth_token"
	keyOnboardingCompleted = "onboarding_completed"
	keyLanguage            = "app_language"
)

const gcmNonceLen = 12

// SQLiteStore is the Store implementation over the local metadata table.
// Each write lands one key at a fully formed value, so readers never observe
// partial state; multi-key writes run inside a transaction.
type SQLiteStore struct {
	db      *sql.DB
	sealKey []byte
}

// NewSQLiteStore binds a store to db. dir must be the directory holding the
// key file (usually the same directory as the database).
func NewSQLiteStore(db *sql.DB, dir string) (*SQLiteStore, error) {
	key, err := loadOrCreateSealKey(dir)
	if err != nil {
		return nil, common.NewStorageError("init", err)
	}
	return &SQLiteStore{db: db, sealKey: key}, nil
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewStorageError("get "+key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return common.NewStorageError("set "+key, err)
	}
	return nil
}

// SaveSession marks the session flag and seals the token in one transaction.
func (s *SQLiteStore) SaveSession(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keySessionExists, []byte("true")); err != nil {
			return err
		}
		if token == "" {
			return nil
		}
		sealed, err := s.seal([]byte(token))
		if err != nil {
			return common.NewStorageError("seal token", err)
		}
		return s.set(ctx, tx, keyAuthToken, sealed)
	})
}

func (s *SQLiteStore) HasSession(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, s.db, keySessionExists)
	if err != nil {
		return false, err
	}
	return string(value) == "true", nil
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	sealed, err := s.get(ctx, s.db, keyAuthToken)
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", nil
	}
	plain, err := s.open(sealed)
	if err != nil {
		return "", common.NewStorageError("unseal token", err)
	}
	token := string(plain)
	common.WipeByteArray(plain)
	return token, nil
}

func (s *SQLiteStore) SetOnboardingCompleted(ctx context.Context, completed bool) error {
	value := "false"
	if completed {
		value = "true"
	}
	return s.set(ctx, s.db, keyOnboardingCompleted, []byte(value))
}

func (s *SQLiteStore) OnboardingCompleted(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, s.db, keyOnboardingCompleted)
	if err != nil {
		return false, err
	}
	return string(value) == "true", nil
}

func (s *SQLiteStore) Language(ctx context.Context) (Language, bool, error) {
	value, err := s.get(ctx, s.db, keyLanguage)
	if err != nil {
		return "", false, err
	}
	switch Language(value) {
	case LanguageFrench, LanguageEnglish:
		return Language(value), true, nil
	}
	return "", false, nil
}

func (s *SQLiteStore) SetLanguage(ctx context.Context, lang Language) error {
	if lang != LanguageFrench && lang != LanguageEnglish {
		return common.NewStorageError("set "+keyLanguage, fmt.Errorf("unknown language %q", lang))
	}
	return s.set(ctx, s.db, keyLanguage, []byte(lang))
}

// ClearAll wipes every persisted session value. The language preference is
// kept: it belongs to the device, not the account.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM metadata WHERE key IN (?, ?, ?)`,
		keySessionExists, keyAuthToken, keyOnboardingCompleted)
	if err != nil {
		return common.NewStorageError("clear", err)
	}
	return nil
}

// seal produces nonce||ciphertext for v.
func (s *SQLiteStore) seal(v []byte) ([]byte, error) {
	ciphertext, nonce, err := cryptox.Seal(v, s.sealKey)
	if err != nil {
		return nil, err
	}
	return append(nonce, ciphertext...), nil
}

// open splits nonce||ciphertext and decrypts.
func (s *SQLiteStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < gcmNonceLen {
		return nil, fmt.Errorf("sealed value too short: %d", len(sealed))
	}
	return cryptox.Open(sealed[gcmNonceLen:], sealed[:gcmNonceLen], s.sealKey)
}
