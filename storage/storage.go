package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	sc "github.com/krau/SaveFolio/config/storage"
	storenum "github.com/krau/SaveFolio/pkg/enums/storage"
	"github.com/krau/SaveFolio/storage/local"
	"github.com/krau/SaveFolio/storage/minio"
)

var ErrStorageNameEmpty = errors.New("storage name is empty")

type Storage interface {
	Init(ctx context.Context, cfg sc.StorageConfig) error
	Type() storenum.StorageType
	Name() string
	// JoinStoragePath prefixes p with the storage base path.
	JoinStoragePath(p string) string
	// Save consumes r until EOF. Existing files are never overwritten; a
	// numeric suffix is added instead.
	Save(ctx context.Context, r io.Reader, storagePath string) error
}

type StorageConstructor func() Storage

var storageConstructors = map[storenum.StorageType]StorageConstructor{
	storenum.Local: func() Storage { return new(local.Local) },
	storenum.Minio: func() Storage { return new(minio.Minio) },
}

func NewStorage(ctx context.Context, cfg sc.StorageConfig) (Storage, error) {
	constructor, ok := storageConstructors[cfg.GetType()]
	if !ok {
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.GetType())
	}

	storage := constructor()
	if err := storage.Init(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to init storage %s: %w", cfg.GetName(), err)
	}

	return storage, nil
}
