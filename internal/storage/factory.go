package storage

import (
	"context"
	"fmt"

	"jobtracker/internal/config"
)

// NewFromConfig builds the configured backend, wrapped with age encryption
// when key files are configured.
func NewFromConfig(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case "memory":
		store = NewMemoryStore()
	case "filesystem", "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem storage requires a directory")
		}
		store, err = NewFileSystemStore(cfg.Dir)
	case "s3":
		store, err = NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AgeRecipientsFile == "" && cfg.AgeIdentityFile == "" {
		return store, nil
	}
	recipients, identities, err := LoadAgeKeys(cfg.AgeRecipientsFile, cfg.AgeIdentityFile)
	if err != nil {
		return nil, err
	}
	return NewEncryptedStore(store, recipients, identities), nil
}
