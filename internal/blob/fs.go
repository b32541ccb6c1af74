package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const manifestName = ".manifest.json"

// Filesystem implements Store on a local directory. A key like
// "proj-1/plan.pdf" lands in the project's subfolder under the root, and each
// folder carries a single manifest describing every blob it holds. The data
// files themselves stay untouched originals, so the folder remains browsable.
// Not safe for concurrent writers.
type Filesystem struct {
	root string
}

// NewFilesystem returns a filesystem blob store rooted at path, creating the
// directory if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./siteledger-uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: root}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

// splitKey validates a key and splits it into the folder (relative to root,
// possibly empty) and the file name. Traversal and absolute keys are rejected
// so no blob can land outside the root.
func splitKey(key string) (folder, name string, err error) {
	if strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", "", fmt.Errorf("key %q escapes the storage root", key)
	}
	clean := path.Clean(filepath.ToSlash(key))
	if strings.HasPrefix(clean, "/") {
		return "", "", fmt.Errorf("key %q escapes the storage root", key)
	}
	folder, name = path.Split(clean)
	folder = strings.TrimSuffix(folder, "/")
	if name == "" || name == "." || name == manifestName {
		return "", "", fmt.Errorf("invalid key %q", key)
	}
	return folder, name, nil
}

// blobRecord is one manifest entry, keyed by file name within the folder.
type blobRecord struct {
	ContentType string            `json:"contentType,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	UploadedAt  time.Time         `json:"uploadedAt"`
}

type manifest map[string]blobRecord

func (f *Filesystem) folderDir(folder string) string {
	return filepath.Join(f.root, filepath.FromSlash(folder))
}

func (f *Filesystem) loadManifest(dir string) (manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return manifest{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest in %s: %w", dir, err)
	}
	return m, nil
}

// saveManifest writes the folder manifest atomically; an empty manifest
// removes the file so deleted folders leave no residue.
func (f *Filesystem) saveManifest(dir string, m manifest) error {
	target := filepath.Join(dir, manifestName)
	if len(m) == 0 {
		err := os.Remove(target)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (f *Filesystem) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	folder, name, err := splitKey(key)
	if err != nil {
		return Info{}, err
	}
	dir := f.folderDir(folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Info{}, err
	}
	man, err := f.loadManifest(dir)
	if err != nil {
		return Info{}, err
	}
	if _, taken := man[name]; taken {
		return Info{}, fmt.Errorf("blob %s already exists", key)
	}
	dataPath := filepath.Join(dir, name)
	if _, err := os.Stat(dataPath); err == nil {
		return Info{}, fmt.Errorf("blob %s already exists", key)
	}
	// stream through a temp file to compute size and digest before the rename
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	h := sha256.New()
	size, copyErr := io.Copy(io.MultiWriter(tmp, h), r)
	if copyErr != nil {
		_ = tmp.Close()
		return Info{}, copyErr
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return Info{}, err
	}
	rec := blobRecord{
		ContentType: opts.ContentType,
		Metadata:    cloneMD(opts.Metadata),
		ETag:        hex.EncodeToString(h.Sum(nil)),
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}
	man[name] = rec
	if err := f.saveManifest(dir, man); err != nil {
		return Info{}, err
	}
	return recordInfo(path.Join(folder, name), rec), nil
}

func (f *Filesystem) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	folder, name, err := splitKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	dir := f.folderDir(folder)
	man, err := f.loadManifest(dir)
	if err != nil {
		return Info{}, nil, err
	}
	rec, ok := man[name]
	if !ok {
		return Info{}, nil, fmt.Errorf("blob %s not found", key)
	}
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return Info{}, nil, err
	}
	return recordInfo(path.Join(folder, name), rec), file, nil
}

func (f *Filesystem) Head(ctx context.Context, key string) (Info, error) {
	folder, name, err := splitKey(key)
	if err != nil {
		return Info{}, err
	}
	man, err := f.loadManifest(f.folderDir(folder))
	if err != nil {
		return Info{}, err
	}
	rec, ok := man[name]
	if !ok {
		return Info{}, fmt.Errorf("blob %s not found", key)
	}
	return recordInfo(path.Join(folder, name), rec), nil
}

func (f *Filesystem) Delete(ctx context.Context, key string) (bool, error) {
	folder, name, err := splitKey(key)
	if err != nil {
		return false, err
	}
	dir := f.folderDir(folder)
	man, err := f.loadManifest(dir)
	if err != nil {
		return false, err
	}
	if _, ok := man[name]; !ok {
		return false, nil
	}
	if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	delete(man, name)
	if err := f.saveManifest(dir, man); err != nil {
		return false, err
	}
	return true, nil
}

func (f *Filesystem) List(ctx context.Context, prefix string) ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || d.Name() != manifestName {
			return nil
		}
		dir := filepath.Dir(p)
		man, err := f.loadManifest(dir)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(f.root, dir)
		if err != nil {
			return err
		}
		folder := filepath.ToSlash(rel)
		if folder == "." {
			folder = ""
		}
		for name, rec := range man {
			key := path.Join(folder, name)
			if prefix == "" || strings.HasPrefix(key, prefix) {
				infos = append(infos, recordInfo(key, rec))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func recordInfo(key string, rec blobRecord) Info {
	return Info{
		Key:          key,
		Size:         rec.Size,
		ContentType:  rec.ContentType,
		ETag:         rec.ETag,
		Metadata:     cloneMD(rec.Metadata),
		LastModified: rec.UploadedAt,
	}
}

func cloneMD(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
