package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"jobtracker/internal/database"
	"jobtracker/internal/pkg/apperr"
	"jobtracker/internal/storage"
)

const (
	DefaultMaxBytes = 5 << 20
	sniffLen        = 512
	maxFileNameLen  = 255
)

// ApplicationLookup is the part of the application service files depend on.
type ApplicationLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// UploadInput describes one attachment upload. Content is read once.
type UploadInput struct {
	ApplicationID string
	FileName      string
	DeclaredMIME  string
	Source        string
	Category      string
	Content       io.Reader
}

type Service struct {
	repo     Repository
	apps     ApplicationLookup
	store    storage.Store
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, apps ApplicationLookup, store storage.Store, maxBytes int64, logger *slog.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		apps:     apps,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      database.Now,
	}
}

// MaxBytes is the upload ceiling enforced on the stream.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Upload stores the bytes first and then the metadata row. If the row cannot
// be written the bytes are removed again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	source, err := ParseSource(in.Source)
	if err != nil {
		return nil, err
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	name, err := cleanFileName(in.FileName)
	if err != nil {
		return nil, err
	}

	ok, err := s.apps.Exists(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrApplicationNotFound
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Content, head)
	switch {
	case errors.Is(err, io.EOF):
		return nil, ErrEmptyFile
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]

	mimeType := ResolveMIME(in.DeclaredMIME, head)
	now := s.now()
	f := &File{
		ID:            uuid.NewString(),
		ApplicationID: in.ApplicationID,
		FileName:      name,
		FileType:      Classify(mimeType),
		MimeType:      mimeType,
		StorageKey:    storageKey(now, Extension(name, mimeType)),
		Source:        source,
		Category:      category,
		CreatedAt:     now,
	}

	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), in.Content), max: s.maxBytes}
	if err := s.store.Put(ctx, f.StorageKey, body, -1); err != nil {
		s.discard(f.StorageKey)
		if body.exceeded {
			return nil, apperr.ErrTooLarge
		}
		return nil, fmt.Errorf("storing file: %w", err)
	}
	f.SizeBytes = body.n

	if err := s.repo.Create(ctx, f); err != nil {
		s.discard(f.StorageKey)
		return nil, err
	}
	return f, nil
}

// discard removes bytes whose metadata row was never written. Failures are
// left to the sweep.
func (s *Service) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to discard stored bytes; left for sweep", "storage_key", key, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the attachments of an application in upload order.
func (s *Service) List(ctx context.Context, applicationID string) ([]*File, error) {
	ok, err := s.apps.Exists(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return s.repo.ListByApplication(ctx, applicationID)
}

// Open returns the metadata and a reader over the stored bytes. The caller
// closes the reader.
func (s *Service) Open(ctx context.Context, id string) (*File, io.ReadCloser, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, f.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrContentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}

// Delete removes the bytes, then the row. If the bytes cannot be removed the
// row is kept so the call can be retried.
func (s *Service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.StorageKey); err != nil {
		return fmt.Errorf("removing stored bytes: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// SweepOptions controls the orphan sweep. Objects younger than Grace are
// skipped since their upload may still be in flight.
type SweepOptions struct {
	Grace  time.Duration
	DryRun bool
}

type SweepReport struct {
	Scanned      int      `json:"scanned"`
	Orphans      []string `json:"orphans"`
	Deleted      int      `json:"deleted"`
	BytesRemoved int64    `json:"bytes_removed"`
}

// Sweep deletes stored objects that have no metadata row.
func (s *Service) Sweep(ctx context.Context, opts SweepOptions) (*SweepReport, error) {
	known, err := s.repo.StorageKeys(ctx)
	if err != nil {
		return nil, err
	}

	report := &SweepReport{Orphans: []string{}}
	cutoff := s.now().Add(-opts.Grace)
	var orphans []storage.Object
	err = s.store.List(ctx, func(o storage.Object) error {
		report.Scanned++
		if _, ok := known[o.Key]; ok {
			return nil
		}
		if o.ModTime.After(cutoff) {
			return nil
		}
		orphans = append(orphans, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing stored objects: %w", err)
	}

	for _, o := range orphans {
		report.Orphans = append(report.Orphans, o.Key)
		if opts.DryRun {
			continue
		}
		if err := s.store.Delete(ctx, o.Key); err != nil {
			s.logger.Warn("sweep: failed to delete orphan", "storage_key", o.Key, "error", err)
			continue
		}
		report.Deleted++
		report.BytesRemoved += o.Size
	}

	s.logger.Info("sweep finished",
		"scanned", report.Scanned,
		"orphans", len(report.Orphans),
		"deleted", report.Deleted,
		"dry_run", opts.DryRun,
	)
	return report, nil
}

func storageKey(now time.Time, ext string) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}

func cleanFileName(name string) (string, error) {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "", apperr.Validation("file_name", "is required")
	}
	if utf8.RuneCountInString(name) > maxFileNameLen {
		return "", apperr.Validation("file_name", "must be at most 255 characters")
	}
	return name, nil
}

// limitedReader fails once more than max bytes have been read.
type limitedReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		l.exceeded = true
		return n, apperr.ErrTooLarge
	}
	return n, err
}
