package options

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/neutree-ai/obsprobe/pkg/storage"
)

// StorageOptions holds storage configuration options
type StorageOptions struct {
	Type      string
	AccessURL string
	JwtSecret string
	DSN       string
}

// NewStorageOptions creates new storage options with default values
func NewStorageOptions() *StorageOptions {
	return &StorageOptions{
		Type:      storage.TypeSQLite,
		AccessURL: "http://postgrest:6432",
		DSN:       "/var/lib/obsprobe/obsprobe.db",
	}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *StorageOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Type, "storage-type", o.Type, "decision storage backend: postgrest, sqlite, memory")
	fs.StringVar(&o.AccessURL, "storage-access-url", o.AccessURL, "postgrest url")
	fs.StringVar(&o.JwtSecret, "storage-jwt-secret", o.JwtSecret, "postgrest JWT secret used to mint the service token")
	fs.StringVar(&o.DSN, "storage-dsn", o.DSN, "sqlite database file")
}

// Validate validates storage options
func (o *StorageOptions) Validate() error {
	switch o.Type {
	case storage.TypePostgrest:
		if o.AccessURL == "" {
			return errors.New("storage-access-url is required for postgrest storage")
		}
	case storage.TypeSQLite:
		if o.DSN == "" {
			return errors.New("storage-dsn is required for sqlite storage")
		}
	case storage.TypeMemory:
	default:
		return errors.Errorf("unknown storage type %q", o.Type)
	}

	return nil
}

func (o *StorageOptions) StorageOptions() storage.Options {
	return storage.Options{
		Type:      o.Type,
		AccessURL: o.AccessURL,
		Scheme:    "api",
		JwtSecret: o.JwtSecret,
		DSN:       o.DSN,
	}
}
