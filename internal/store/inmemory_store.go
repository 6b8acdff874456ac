package store

import (
	"strings"
	"sync"
)

// InMemoryProvider keeps named stores in process memory. A single mutex
// guards the map; store access is far from any hot path.
type InMemoryProvider struct {
	mu     sync.RWMutex
	stores map[string]map[string]interface{}
}

func (p *InMemoryProvider) InitStores() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores = make(map[string]map[string]interface{})
}

func (p *InMemoryProvider) GetValue(storeName, key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.stores[storeName]
	if !ok {
		return nil, false
	}
	val, found := data[applyKeyPrefix(key)]
	return val, found
}

func (p *InMemoryProvider) StoreValue(storeName, key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.stores[storeName]
	if !ok {
		data = make(map[string]interface{})
		p.stores[storeName] = data
	}
	data[applyKeyPrefix(key)] = value
}

func (p *InMemoryProvider) GetAllValues(storeName, prefix string) map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.stores[storeName]
	if !ok {
		return nil
	}
	prefixToMatch := applyKeyPrefix(prefix)
	result := make(map[string]interface{})
	for k, v := range data {
		if strings.HasPrefix(k, prefixToMatch) {
			result[removeKeyPrefix(k)] = v
		}
	}
	return result
}

func (p *InMemoryProvider) DeleteValue(storeName, key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if data, ok := p.stores[storeName]; ok {
		delete(data, applyKeyPrefix(key))
	}
}

func (p *InMemoryProvider) DeleteStore(storeName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stores, storeName)
}
