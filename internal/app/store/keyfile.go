package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/johanthomias/HumDaddy-mobile/internal/common"
	"github.com/johanthomias/HumDaddy-mobile/internal/cryptox"
	"github.com/johanthomias/HumDaddy-mobile/internal/filex"
)

const (
	keyFileName = "store.key"
	secretLen   = 32
	saltLen     = 32
)

// loadOrCreateSealKey loads the per-install secret+salt from the key file in
// dir (creating both on first run) and derives the sealing key from them.
func loadOrCreateSealKey(dir string) ([]byte, error) {
	path := filepath.Join(dir, keyFileName)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) != secretLen+saltLen {
			return nil, fmt.Errorf("key file %s: unexpected size %d", path, len(data))
		}
	case os.IsNotExist(err):
		data = common.GenerateRandByteArray(secretLen + saltLen)
		if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
			return nil, fmt.Errorf("key file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}

	key := cryptox.DeriveKey(data[:secretLen], data[secretLen:])
	common.WipeByteArray(data)
	return key, nil
}
