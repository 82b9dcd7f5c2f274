package game

import (
	"sort"
	"strings"
	"sync"
)

// DefaultAppID is used when a lookup names no game.
const DefaultAppID = "4000"

var (
	mu       sync.RWMutex
	adapters = map[string]GameAdapter{}
	aliases  = map[string]string{}
)

func Register(adapter GameAdapter) {
	mu.Lock()
	defer mu.Unlock()
	adapters[adapter.AppID()] = adapter
	for _, a := range adapter.Aliases() {
		aliases[strings.ToLower(a)] = adapter.AppID()
	}
}

func Get(appID string) GameAdapter {
	mu.RLock()
	defer mu.RUnlock()
	return adapters[appID]
}

// Resolve maps an alias or app id to an app id. Unknown input is returned
// trimmed and unchanged; empty input yields DefaultAppID.
func Resolve(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultAppID
	}
	mu.RLock()
	defer mu.RUnlock()
	if id, ok := aliases[strings.ToLower(s)]; ok {
		return id
	}
	return s
}

// All returns registered games ordered by app id.
func All() []GameAdapter {
	mu.RLock()
	defer mu.RUnlock()
	result := make([]GameAdapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AppID() < result[j].AppID() })
	return result
}
