package store

import "strings"

// requestProvider backs the per-request store. Unlike shared providers a
// fresh instance is created for every exchange, so no locking is needed:
// a request store is only ever touched by the goroutine serving its
// request.
type requestProvider struct {
	data map[string]interface{}
}

func (p *requestProvider) InitStores() {
	// no-op
}

func (p *requestProvider) GetValue(storeName, key string) (interface{}, bool) {
	if p.data == nil {
		return nil, false
	}
	val, found := p.data[applyKeyPrefix(key)]
	return val, found
}

func (p *requestProvider) StoreValue(storeName, key string, value interface{}) {
	if p.data == nil {
		p.data = make(map[string]interface{})
	}
	p.data[applyKeyPrefix(key)] = value
}

func (p *requestProvider) GetAllValues(storeName, prefix string) map[string]interface{} {
	if p.data == nil {
		return nil
	}
	prefixToMatch := applyKeyPrefix(prefix)
	result := make(map[string]interface{})
	for k, v := range p.data {
		if strings.HasPrefix(k, prefixToMatch) {
			result[removeKeyPrefix(k)] = v
		}
	}
	return result
}

func (p *requestProvider) DeleteValue(storeName, key string) {
	if p.data != nil {
		delete(p.data, applyKeyPrefix(key))
	}
}

func (p *requestProvider) DeleteStore(storeName string) {
	p.data = nil
}

// NewRequestStore creates a store scoped to a single exchange. Handler
// modules use it to pass data along the chain.
func NewRequestStore() *Store {
	return &Store{
		name:     "request",
		provider: &requestProvider{},
	}
}
