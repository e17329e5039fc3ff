// Package gallery manages media items: the database rows describing each image
// or video and the uploaded bytes kept in a blob store.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/garnizeh/outreach/pkg/models"
	"github.com/garnizeh/outreach/pkg/repository"
)

// URLPrefix is the public path under which stored blobs are served.
const URLPrefix = "/api/static/uploads/"

var (
	ErrMissingFile     = errors.New("no file provided")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNotFound        = errors.New("media item not found")
)

// BlobStore is the subset of storage.LocalStore the gallery needs.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(name string) (*os.File, error)
	Remove(name string) error
	List() ([]string, error)
	ModTime(name string) (time.Time, error)
}

// UploadInput describes one uploaded file and its display metadata.
type UploadInput struct {
	Filename    string
	Body        io.Reader
	Title       string
	Description string
}

// Observer receives gallery events; the api layer feeds them into metrics.
type Observer interface {
	Uploaded(kind models.MediaKind, size int64)
	Deleted()
}

type Service struct {
	repo     repository.MediaRepo
	blobs    BlobStore
	logger   *slog.Logger
	now      func() time.Time
	observer Observer
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

func NewService(repo repository.MediaRepo, blobs BlobStore, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Service{repo: repo, blobs: blobs, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every media item, newest first.
func (s *Service) List(ctx context.Context) ([]models.MediaItem, error) {
	items, err := s.repo.ListMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	if items == nil {
		items = []models.MediaItem{}
	}
	return items, nil
}

// Upload stores the file bytes, then records the media item. If the row cannot
// be written the blob is removed again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (models.MediaItem, error) {
	if in.Body == nil || in.Filename == "" {
		return models.MediaItem{}, ErrMissingFile
	}

	kind, ext, ok := KindForFilename(in.Filename)
	if !ok {
		return models.MediaItem{}, ErrInvalidFileType
	}

	// rows keep microseconds; the returned item must match what List reads back
	at := s.now().UTC().Truncate(time.Microsecond)
	name := storedName(in.Filename, ext, at)

	size, err := s.blobs.Save(ctx, name, in.Body)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("store blob: %w", err)
	}

	item := models.MediaItem{
		URL:         URLPrefix + name,
		Title:       in.Title,
		Description: in.Description,
		Kind:        kind,
		CreatedAt:   at,
	}
	id, err := s.repo.CreateMedia(ctx, &item)
	if err != nil {
		if rerr := s.blobs.Remove(name); rerr != nil {
			s.logger.Error("remove orphaned blob", slog.String("blob", name), slog.Any("err", rerr))
		}
		return models.MediaItem{}, fmt.Errorf("create media item: %w", err)
	}
	item.ID = id

	s.logger.Info("media uploaded",
		slog.Int64("id", id),
		slog.String("blob", name),
		slog.String("kind", kind.String()),
		slog.Int64("size", size),
	)
	if s.observer != nil {
		s.observer.Uploaded(kind, size)
	}

	return item, nil
}

// Delete removes the media item row and, best effort, its blob.
func (s *Service) Delete(ctx context.Context, id int64) error {
	item, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return fmt.Errorf("get media item: %w", err)
	}
	if item == nil {
		return ErrNotFound
	}

	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete media item: %w", err)
	}

	if name, ok := BlobName(item.URL); ok {
		if err := s.blobs.Remove(name); err != nil {
			s.logger.Warn("remove blob after delete", slog.String("blob", name), slog.Any("err", err))
		}
	}
	if s.observer != nil {
		s.observer.Deleted()
	}

	return nil
}

// Open returns a stored blob for serving.
func (s *Service) Open(name string) (*os.File, error) {
	return s.blobs.Open(name)
}

// Orphans lists blobs that no media item references, for example after a crash
// between the blob write and the row insert. Blobs written within grace of now
// are skipped since their upload may still be recording its row.
func (s *Service) Orphans(ctx context.Context, grace time.Duration) ([]string, error) {
	items, err := s.repo.ListMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	referenced := make(map[string]struct{}, len(items))
	for _, it := range items {
		if name, ok := BlobName(it.URL); ok {
			referenced[name] = struct{}{}
		}
	}

	names, err := s.blobs.List()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-grace)
	var orphans []string
	for _, n := range names {
		if _, ok := referenced[n]; ok {
			continue
		}
		if grace > 0 {
			mod, err := s.blobs.ModTime(n)
			if err != nil {
				return nil, fmt.Errorf("stat blob %s: %w", n, err)
			}
			if mod.After(cutoff) {
				continue
			}
		}
		orphans = append(orphans, n)
	}

	return orphans, nil
}

// BlobName extracts the blob name from a media URL.
func BlobName(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
