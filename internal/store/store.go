package store

import (
	"os"
	"strings"

	"github.com/modserve-project/modserve-go/pkg/logger"
)

// Provider defines the contract for store backends. Named stores are
// shared host-wide state visible to every handler module; the request
// store is private to one exchange.
type Provider interface {
	InitStores()
	GetValue(storeName, key string) (interface{}, bool)
	StoreValue(storeName, key string, value interface{})
	GetAllValues(storeName, keyPrefix string) map[string]interface{}
	DeleteValue(storeName, key string)
	DeleteStore(storeName string)
}

// Store is a handle to one named store.
type Store struct {
	name     string
	provider Provider
}

// Open returns a handle to a named store. The name "request" resolves to
// the supplied request-scoped store instead of the shared provider.
func Open(storeName string, requestStore *Store) *Store {
	if storeName == "request" && requestStore != nil {
		return requestStore
	}
	return &Store{
		name:     storeName,
		provider: provider,
	}
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) GetValue(key string) (interface{}, bool) {
	return s.provider.GetValue(s.name, key)
}

func (s *Store) StoreValue(key string, value interface{}) {
	s.provider.StoreValue(s.name, key, value)
}

func (s *Store) GetAllValues(keyPrefix string) map[string]interface{} {
	return s.provider.GetAllValues(s.name, keyPrefix)
}

func (s *Store) DeleteValue(key string) {
	s.provider.DeleteValue(s.name, key)
}

// provider is the process-wide store provider.
var provider Provider

// InitProvider selects and initialises the shared store backend. The
// driver comes from the host configuration ("redis" or empty for the
// in-memory default).
func InitProvider(driver string) {
	switch driver {
	case "redis":
		provider = &RedisProvider{}
	case "", "inmemory":
		provider = &InMemoryProvider{}
	default:
		logger.Warnf("unknown store driver %q, using in-memory store", driver)
		provider = &InMemoryProvider{}
	}
	provider.InitStores()
}

// DeleteStore removes an entire named store.
func DeleteStore(storeName string) {
	provider.DeleteStore(storeName)
}

func keyPrefix() string {
	return os.Getenv("MODSERVE_STORE_KEY_PREFIX")
}

func applyKeyPrefix(key string) string {
	if prefix := keyPrefix(); prefix != "" {
		return prefix + "." + key
	}
	return key
}

func removeKeyPrefix(key string) string {
	if prefix := keyPrefix(); prefix != "" {
		return strings.TrimPrefix(key, prefix+".")
	}
	return key
}
