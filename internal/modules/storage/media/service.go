package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	appconfigs "github.com/schoolboard/core/internal/modules/configs"
)

var (
	ErrBucketInvalid = errors.New("invalid media bucket")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrNameInvalid   = errors.New("invalid file name")
)

// UploadResult describes one stored media object.
type UploadResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// FileInfo is one entry of a bucket listing.
type FileInfo struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Size    int64  `json:"size"`
	Created int64  `json:"created"`
}

// Service stores uploads on local disk, or in S3 when the settings
// enable it. The public URL it hands back is what editors paste into
// content.
type Service struct {
	cfgSvc    *appconfigs.Service
	staticDir string
}

func NewService(cfgSvc *appconfigs.Service, staticDir string) *Service {
	return &Service{cfgSvc: cfgSvc, staticDir: staticDir}
}

// Upload validates and stores one file, returning its public URL.
func (s *Service) Upload(ctx context.Context, bucket, originalName string, payload []byte, contentTypeHint string) (*UploadResult, error) {
	bucket = normalizeBucket(bucket)
	if bucket == "" {
		return nil, ErrBucketInvalid
	}

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, err
	}
	maxBytes := int64(cfg.Media.MaxUploadMB) * 1024 * 1024
	if maxBytes > 0 && int64(len(payload)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	name := buildFileName(originalName)
	contentType := detectContentType(originalName, payload, contentTypeHint)

	if cfg.Media.S3.Enable {
		store := newS3Store(cfg.Media.S3)
		key := fmt.Sprintf("%s/%s/%s", bucket, time.Now().Format("2006/01"), name)
		url, err := store.Put(ctx, key, payload, contentType)
		if err != nil {
			return nil, err
		}
		return &UploadResult{Name: name, URL: url, Size: int64(len(payload))}, nil
	}

	dir := filepath.Join(s.staticDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return nil, err
	}
	return &UploadResult{
		Name: name,
		URL:  fmt.Sprintf("/media/%s/%s", bucket, name),
		Size: int64(len(payload)),
	}, nil
}

// List returns the local files of one bucket, newest first.
func (s *Service) List(bucket string) ([]FileInfo, error) {
	bucket = normalizeBucket(bucket)
	if bucket == "" {
		return nil, ErrBucketInvalid
	}
	entries, err := os.ReadDir(filepath.Join(s.staticDir, bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}

	items := make([]FileInfo, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		items = append(items, FileInfo{
			Name:    ent.Name(),
			URL:     fmt.Sprintf("/media/%s/%s", bucket, ent.Name()),
			Size:    info.Size(),
			Created: info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Created > items[j].Created })
	return items, nil
}

// LocalPath resolves a bucket/name pair to a servable path, or ""
// when either segment is unsafe or the file is missing.
func (s *Service) LocalPath(bucket, name string) string {
	bucket = normalizeBucket(bucket)
	name = safeName(name)
	if bucket == "" || name == "" {
		return ""
	}
	path := filepath.Join(s.staticDir, bucket, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Delete removes one local file.
func (s *Service) Delete(bucket, name string) error {
	bucket = normalizeBucket(bucket)
	name = safeName(name)
	if bucket == "" || name == "" {
		return ErrNameInvalid
	}
	err := os.Remove(filepath.Join(s.staticDir, bucket, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
