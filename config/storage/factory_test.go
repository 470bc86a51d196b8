package storage

import (
	"strings"
	"testing"

	storenum "github.com/krau/SaveFolio/pkg/enums/storage"
	"github.com/spf13/viper"
)

func loadTOML(t *testing.T, doc string) ([]StorageConfig, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	return LoadStorageConfigs(v)
}

func TestLoadStorageConfigs(t *testing.T) {
	cfgs, err := loadTOML(t, `
[[storages]]
name = "disk"
type = "local"
enable = true
base_path = "./downloads"

[[storages]]
name = "bucket"
type = "MINIO"
enable = true
endpoint = "127.0.0.1:9000"
access_key_id = "key"
secret_access_key = "secret"
bucket_name = "folio"

[[storages]]
name = "off"
type = "local"
enable = false
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 2 {
		t.Fatalf("got %d configs, want 2", len(cfgs))
	}
	local, ok := cfgs[0].(*LocalStorageConfig)
	if !ok || local.BasePath != "./downloads" || local.GetType() != storenum.Local {
		t.Errorf("local = %+v", cfgs[0])
	}
	m, ok := cfgs[1].(*MinioStorageConfig)
	if !ok || m.BucketName != "folio" || m.GetName() != "bucket" {
		t.Errorf("minio = %+v", cfgs[1])
	}
}

func TestLoadStorageConfigsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown type", "[[storages]]\nname = \"x\"\ntype = \"ftp\"\nenable = true\n", "invalid storage type"},
		{"missing path", "[[storages]]\nname = \"x\"\ntype = \"local\"\nenable = true\n", "invalid storage config"},
		{"duplicate", "[[storages]]\nname = \"x\"\ntype = \"local\"\nenable = true\nbase_path = \"a\"\n[[storages]]\nname = \"x\"\ntype = \"local\"\nenable = true\nbase_path = \"b\"\n", "duplicate storage name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTOML(t, tt.doc)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
