package filestore

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// ProgressStore implements store.ProgressStore with JSON files.
type ProgressStore struct {
	dir    string
	logger *slog.Logger
}

// Ensure ProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*ProgressStore)(nil)

// NewProgressStore creates a progress store rooted at dir.
func NewProgressStore(dir string, logger *slog.Logger) *ProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Path returns the progress file path for courseName.
func (s *ProgressStore) Path(courseName string) string {
	return filepath.Join(s.dir, courseName+progressSuffix)
}

// Load implements store.ProgressStore.Load.
func (s *ProgressStore) Load(ctx context.Context, courseName string) (domain.Progress, error) {
	if err := store.ValidateCourseName(courseName); err != nil {
		return nil, err
	}

	var progress domain.Progress
	if err := readJSON(s.Path(courseName), &progress); err != nil {
		if isNotExist(err) {
			return domain.NewProgress(), nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to read progress file",
			slog.String("course", courseName),
			slog.String("error", err.Error()))
		if isDecodeError(err) {
			err = errors.Join(store.ErrCorrupt, err)
		}
		return nil, store.NewStoreError("progress", "load", "failed to read progress file", err)
	}
	if progress == nil {
		progress = domain.NewProgress()
	}
	return progress, nil
}

// Save implements store.ProgressStore.Save.
func (s *ProgressStore) Save(ctx context.Context, courseName string, progress domain.Progress) error {
	if err := store.ValidateCourseName(courseName); err != nil {
		return err
	}
	if progress == nil {
		progress = domain.NewProgress()
	}

	if err := writeJSON(s.Path(courseName), progress); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write progress file",
			slog.String("course", courseName),
			slog.String("error", err.Error()))
		return store.NewStoreError("progress", "save", "failed to write progress file", err)
	}
	return nil
}

// MarkComplete implements store.ProgressStore.MarkComplete.
func (s *ProgressStore) MarkComplete(ctx context.Context, courseName string, day int) (domain.Progress, error) {
	progress, err := s.Load(ctx, courseName)
	if err != nil {
		return nil, err
	}
	progress.Complete(day)
	if err := s.Save(ctx, courseName, progress); err != nil {
		return nil, err
	}
	return progress, nil
}
