package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/samber/lo"
)

// keyringServiceName namespaces authgate items in the OS keyring.
const keyringServiceName = "authgate"

// KeyringBackend keeps status records in the OS keyring instead of files.
// The keyring replaces an item in one call, which gives the same atomic
// visibility as the file backend's rename.
type KeyringBackend struct {
	ring keyring.Keyring
	mu   sync.Mutex
}

// NewKeyringBackend wraps an opened keyring.
func NewKeyringBackend(ring keyring.Keyring) *KeyringBackend {
	return &KeyringBackend{ring: ring}
}

// OpenKeyring opens the platform keyring. fileDir is used when only the
// encrypted-file fallback is available.
func OpenKeyring(fileDir string) (*KeyringBackend, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              keyringServiceName,
		KeychainTrustApplication: true,
		FileDir:                  fileDir,
		// Records hold status metadata only, so the file fallback does not
		// need a user secret.
		FilePasswordFunc: keyring.FixedStringPrompt(keyringServiceName),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewKeyringBackend(ring), nil
}

func itemKey(service, record string) string {
	return service + "/" + record
}

func (b *KeyringBackend) Read(_ context.Context, service, record string) ([]byte, error) {
	if err := ValidateKey(service); err != nil {
		return nil, err
	}
	item, err := b.ring.Get(itemKey(service, record))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.Data, nil
}

func (b *KeyringBackend) Write(_ context.Context, service, record string, data []byte) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := itemKey(service, record)
	return b.ring.Set(keyring.Item{
		Key:   key,
		Data:  data,
		Label: "authgate " + key,
	})
}

func (b *KeyringBackend) Remove(_ context.Context, service, record string) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	err := b.ring.Remove(itemKey(service, record))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// RemoveIf re-reads the item before deleting it. The keyring offers no
// cross-process lock, so only writers in this process are excluded.
func (b *KeyringBackend) RemoveIf(_ context.Context, service, record string, stale func([]byte) bool) error {
	if err := ValidateKey(service); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	key := itemKey(service, record)
	item, err := b.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !stale(item.Data) {
		return nil
	}
	err = b.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

func (b *KeyringBackend) Services(_ context.Context) ([]string, error) {
	keys, err := b.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keyring items: %w", err)
	}

	services := lo.FilterMap(keys, func(key string, _ int) (string, bool) {
		service, _, ok := strings.Cut(key, "/")
		return service, ok && ValidateKey(service) == nil
	})
	return lo.Uniq(services), nil
}
