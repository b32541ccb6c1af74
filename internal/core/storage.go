package core

import (
	"context"
	"fmt"
	"os"

	"siteledger/internal/storage/dirstore"
	"siteledger/internal/storage/kvstore"
	"siteledger/internal/storage/memstore"
	"siteledger/internal/storage/pgstore"
	"siteledger/pkg/domain"
)

// StorageDriver identifies a concrete document store implementation.
type StorageDriver string

const (
	StorageDir      StorageDriver = "dir"      // one JSON file per resource (default)
	StorageKV       StorageDriver = "kv"       // embedded sqlite key-value fallback
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
)

// OpenDocumentStore selects a backend using environment variables, with
// dirRoot as the directory-driver root when the environment does not name
// one.
//
//	SITELEDGER_STORAGE_DRIVER: dir|kv|postgres|memory (default dir)
//	SITELEDGER_DIR_ROOT: directory root when driver=dir
//	SITELEDGER_KV_PATH: path to sqlite file when driver=kv (default ./siteledger.db)
//	SITELEDGER_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenDocumentStore(ctx context.Context, dirRoot string) (domain.DocumentStore, error) {
	driver := os.Getenv("SITELEDGER_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageDir)
	}
	switch StorageDriver(driver) {
	case StorageDir:
		root := os.Getenv("SITELEDGER_DIR_ROOT")
		if root == "" {
			root = dirRoot
		}
		if root == "" {
			root = "./siteledger-data"
		}
		return dirstore.Open(root)
	case StorageKV:
		return kvstore.Open(os.Getenv("SITELEDGER_KV_PATH"))
	case StoragePostgres:
		return pgstore.Open(ctx, os.Getenv("SITELEDGER_POSTGRES_DSN"))
	case StorageMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
