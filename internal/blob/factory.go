package blob

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Store implementation using environment variables, with
// fsRoot as the filesystem-driver root when the environment does not name
// one.
//
//	SITELEDGER_BLOB_DRIVER: fs|s3|memory (default fs)
//	SITELEDGER_BLOB_FS_ROOT: directory root when driver=fs
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context, fsRoot string) (Store, error) {
	driver := os.Getenv("SITELEDGER_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("SITELEDGER_BLOB_FS_ROOT")
		if root == "" {
			root = fsRoot
		}
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
