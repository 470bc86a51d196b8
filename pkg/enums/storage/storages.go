package storage

import (
	"fmt"
	"strings"
)

type StorageType string

const (
	Local StorageType = "local"
	Minio StorageType = "minio"
)

var storageTypeNames = []string{string(Local), string(Minio)}

func StorageTypeNames() []string {
	out := make([]string, len(storageTypeNames))
	copy(out, storageTypeNames)
	return out
}

func (x StorageType) String() string {
	return string(x)
}

func (x StorageType) IsValid() bool {
	_, err := ParseStorageType(string(x))
	return err == nil
}

var ErrInvalidStorageType = fmt.Errorf("not a valid StorageType, try [%s]", strings.Join(storageTypeNames, ", "))

// ParseStorageType is case-insensitive.
func ParseStorageType(name string) (StorageType, error) {
	switch StorageType(strings.ToLower(strings.TrimSpace(name))) {
	case Local:
		return Local, nil
	case Minio:
		return Minio, nil
	}
	return "", fmt.Errorf("%s is %w", name, ErrInvalidStorageType)
}
