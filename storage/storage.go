package storage

import (
	"fmt"
	"io"

	"nikodex/config"
)

const (
	StorageTypeFile   = "file"
	StorageTypeS3     = "s3"
	StorageTypeMemory = "memory"
)

// StorageAPI stores opaque files under slash separated relative paths.
// Delete of a missing path returns an error matching fs.ErrNotExist where the backend can tell.
type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Delete(path string) error
	Exists(path string) bool
}

var Default StorageAPI

func Init() error {
	s, err := New(config.STORAGE_TYPE)
	if err != nil {
		return err
	}
	Default = s
	return nil
}

func New(storageType string) (StorageAPI, error) {
	switch storageType {
	case StorageTypeFile, "":
		return NewDiskStorage(config.IMAGE_DIR)
	case StorageTypeS3:
		return NewS3Storage(S3Options{
			Bucket:   config.S3_BUCKET,
			Region:   config.S3_REGION,
			Endpoint: config.S3_ENDPOINT,
			Key:      config.S3_KEY,
			Secret:   config.S3_SECRET,
			Prefix:   config.S3_PREFIX,
		})
	case StorageTypeMemory:
		return NewMemoryStorage(), nil
	}
	return nil, fmt.Errorf("storage type %q unavailable", storageType)
}
