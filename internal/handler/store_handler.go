package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/store"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

// HandleStoreRequest handles requests to the /system/store API. The
// response is accumulated in a ResponseState and written out in one
// place, like every other response producer.
func HandleStoreRequest(w http.ResponseWriter, r *http.Request) {
	rs := exchange.NewResponseState()
	defer rs.WriteToResponseWriter(w)

	pathSegments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathSegments) < 3 {
		storeError(rs, http.StatusBadRequest, "Invalid store path")
		return
	}

	storeName := pathSegments[2]
	key := ""
	if len(pathSegments) > 3 {
		key = strings.Join(pathSegments[3:], "/")
	}

	switch r.Method {
	case http.MethodGet:
		handleGetStore(rs, r, storeName, key)
	case http.MethodPut:
		handlePutStore(rs, r, storeName, key)
	case http.MethodPost:
		handlePostStore(rs, r, storeName)
	case http.MethodDelete:
		handleDeleteStore(rs, storeName, key)
	default:
		storeError(rs, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func storeError(rs *exchange.ResponseState, status int, msg string) {
	rs.StatusCode = status
	rs.Headers["Content-Type"] = "text/plain"
	rs.Body = []byte(msg)
}

func storeJSON(rs *exchange.ResponseState, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to encode store value: %v", err)
		storeError(rs, http.StatusInternalServerError, "Failed to encode value")
		return
	}
	rs.Headers["Content-Type"] = "application/json"
	rs.Body = data
}

func handleGetStore(rs *exchange.ResponseState, r *http.Request, storeName, key string) {
	s := store.Open(storeName, nil)
	if key == "" {
		logger.Infof("listing all items in store: %s", storeName)
		storeJSON(rs, s.GetAllValues(r.URL.Query().Get("keyPrefix")))
		return
	}

	value, found := s.GetValue(key)
	if !found {
		logger.Infof("item not found: %s in store: %s", key, storeName)
		storeError(rs, http.StatusNotFound, "Not found")
		return
	}
	logger.Infof("returning item: %s from store: %s", key, storeName)
	if strVal, ok := value.(string); ok {
		rs.Headers["Content-Type"] = "text/plain"
		rs.Body = []byte(strVal)
		return
	}
	storeJSON(rs, value)
}

func handlePutStore(rs *exchange.ResponseState, r *http.Request, storeName, key string) {
	if key == "" {
		storeError(rs, http.StatusBadRequest, "Key is required")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Errorf("failed to read request body: %v", err)
		storeError(rs, http.StatusInternalServerError, "Failed to read request body")
		return
	}
	s := store.Open(storeName, nil)
	s.StoreValue(key, string(body))
	logger.Infof("saved item: %s to store: %s", key, storeName)
	rs.StatusCode = http.StatusNoContent
}

func handlePostStore(rs *exchange.ResponseState, r *http.Request, storeName string) {
	var items map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		logger.Errorf("invalid JSON: %v", err)
		storeError(rs, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s := store.Open(storeName, nil)
	for key, value := range items {
		s.StoreValue(key, value)
	}
	logger.Infof("saved %d items to store: %s", len(items), storeName)
	rs.StatusCode = http.StatusNoContent
}

func handleDeleteStore(rs *exchange.ResponseState, storeName, key string) {
	if key == "" {
		store.DeleteStore(storeName)
		logger.Infof("deleted store: %s", storeName)
	} else {
		s := store.Open(storeName, nil)
		s.DeleteValue(key)
		logger.Infof("deleted item: %s from store: %s", key, storeName)
	}
	rs.StatusCode = http.StatusNoContent
}
