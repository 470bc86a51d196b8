package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/fileutil"
	config "github.com/krau/SaveFolio/config/storage"
	storenum "github.com/krau/SaveFolio/pkg/enums/storage"
)

type Local struct {
	config config.LocalStorageConfig
	logger *log.Logger
}

func (l *Local) Init(ctx context.Context, cfg config.StorageConfig) error {
	localConfig, ok := cfg.(*config.LocalStorageConfig)
	if !ok {
		return fmt.Errorf("failed to cast local config")
	}
	if err := localConfig.Validate(); err != nil {
		return err
	}
	l.config = *localConfig
	l.logger = log.FromContext(ctx).WithPrefix(fmt.Sprintf("local[%s]", l.config.Name))
	if err := fileutil.CreateDir(localConfig.BasePath + string(filepath.Separator)); err != nil {
		return fmt.Errorf("failed to create local storage directory: %w", err)
	}
	return nil
}

func (l *Local) Type() storenum.StorageType {
	return storenum.Local
}

func (l *Local) Name() string {
	return l.config.Name
}

func (l *Local) JoinStoragePath(p string) string {
	return filepath.Join(l.config.BasePath, p)
}

func (l *Local) Save(ctx context.Context, r io.Reader, storagePath string) error {
	absPath, err := filepath.Abs(storagePath)
	if err != nil {
		return err
	}
	if err := fileutil.CreateDir(filepath.Dir(absPath) + string(filepath.Separator)); err != nil {
		return err
	}
	ext := filepath.Ext(absPath)
	base := strings.TrimSuffix(absPath, ext)
	candidate := absPath
	for i := 1; fileutil.IsExist(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	l.logger.Infof("Saving file from reader to %s", candidate)

	file, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(candidate)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return file.Close()
}
