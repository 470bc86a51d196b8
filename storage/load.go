package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/config"
)

var (
	mu     sync.Mutex
	opened = make(map[string]Storage)
)

// GetStorageByName opens the configured storage called name. A storage is
// initialized once per process and reused afterwards.
func GetStorageByName(ctx context.Context, name string) (Storage, error) {
	if name == "" {
		return nil, ErrStorageNameEmpty
	}

	mu.Lock()
	defer mu.Unlock()
	if stor, ok := opened[name]; ok {
		return stor, nil
	}
	cfg := config.C().GetStorageByName(name)
	if cfg == nil {
		return nil, fmt.Errorf("storage %q not found, configured: %s", name, strings.Join(Names(), ", "))
	}

	stor, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).Debug("Opened storage", "name", name, "type", stor.Type())
	opened[name] = stor
	return stor, nil
}

// Names lists the storages from config. Disabled entries are dropped when
// the config is loaded.
func Names() []string {
	names := make([]string, 0, len(config.C().Storages))
	for _, s := range config.C().Storages {
		names = append(names, s.GetName())
	}
	return names
}
