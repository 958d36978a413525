package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johanthomias/HumDaddy-mobile/internal/common"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) (*SQLiteStore, *sql.DB, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := OpenDatabase(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(db, dir)
	require.NoError(t, err)
	return s, db, dir
}

func TestSQLiteStore_MissingKeysReadAsUnset(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	has, err := s.HasSession(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	done, err := s.OnboardingCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	_, ok, err := s.Language(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SaveSessionRoundTrip(t *testing.T) {
	s, db, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok-secret"))

	has, err := s.HasSession(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-secret", tok)

	// The raw row must not contain the plaintext token.
	var raw []byte
	err = db.QueryRow(`SELECT value FROM metadata WHERE key = 'auth_token'`).Scan(&raw)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-secret")
}

func TestSQLiteStore_SaveSessionWithoutTokenKeepsOldToken(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok-1"))
	require.NoError(t, s.SaveSession(ctx, ""))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestSQLiteStore_TokenSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := OpenDatabase(ctx, dir)
	require.NoError(t, err)
	s, err := NewSQLiteStore(db, dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, "tok-persisted"))
	require.NoError(t, db.Close())

	db2, err := OpenDatabase(ctx, dir)
	require.NoError(t, err)
	defer db2.Close()
	s2, err := NewSQLiteStore(db2, dir)
	require.NoError(t, err)

	tok, err := s2.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-persisted", tok)
}

func TestSQLiteStore_OnboardingFlag(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetOnboardingCompleted(ctx, true))
	done, err := s.OnboardingCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	// Setting it twice is harmless.
	require.NoError(t, s.SetOnboardingCompleted(ctx, true))
	done, err = s.OnboardingCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSQLiteStore_Language(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetLanguage(ctx, LanguageEnglish))
	lang, ok, err := s.Language(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LanguageEnglish, lang)

	err = s.SetLanguage(ctx, Language("de"))
	var storageErr *common.StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestSQLiteStore_ClearAll(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok"))
	require.NoError(t, s.SetOnboardingCompleted(ctx, true))
	require.NoError(t, s.SetLanguage(ctx, LanguageFrench))

	require.NoError(t, s.ClearAll(ctx))

	has, err := s.HasSession(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	done, err := s.OnboardingCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	// Language is a device preference and survives logout.
	lang, ok, err := s.Language(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LanguageFrench, lang)
}

func TestSQLiteStore_ClosedDatabaseIsStorageError(t *testing.T) {
	s, db, _ := setupStore(t)
	require.NoError(t, db.Close())

	_, err := s.HasSession(context.Background())
	var storageErr *common.StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestSQLiteStore_CorruptSealedTokenIsStorageError(t *testing.T) {
	s, db, _ := setupStore(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata (key, value) VALUES ('auth_token', ?)`, []byte("garbage-not-sealed"))
	require.NoError(t, err)

	_, err = s.Token(ctx)
	var storageErr *common.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.False(t, errors.Is(err, sql.ErrNoRows))
}

func TestLoadOrCreateSealKey_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	k1, err := loadOrCreateSealKey(dir)
	require.NoError(t, err)
	k2, err := loadOrCreateSealKey(dir)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	fi, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}
