package photo

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/renttogether/renttogether-backend/internal/car"
	"github.com/renttogether/renttogether-backend/internal/pkg/storage"
)

const (
	maxFilesPerUpload = 10
	maxFileSize       = 5 << 20 // 5 MB
	urlPrefix         = "/uploads/"
)

// Upload is one file from a multipart request.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Service defines business logic for car photos.
type Service interface {
	Upload(ctx context.Context, carID, callerID string, files []Upload) ([]*Photo, error)
	ListByCar(ctx context.Context, carID string) ([]*Photo, error)
	Delete(ctx context.Context, id, callerID string) error
}

type service struct {
	repo      Repository
	cars      car.Service
	store     storage.Storage
	processor *storage.ImageProcessor
}

func NewService(repo Repository, cars car.Service, store storage.Storage, processor *storage.ImageProcessor) Service {
	return &service{
		repo:      repo,
		cars:      cars,
		store:     store,
		processor: processor,
	}
}

func (s *service) Upload(ctx context.Context, carID, callerID string, files []Upload) ([]*Photo, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > maxFilesPerUpload {
		return nil, ErrTooManyFiles
	}
	for _, f := range files {
		if f.Size > maxFileSize {
			return nil, ErrFileTooLarge
		}
	}

	v, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	existing, err := s.repo.CountByCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	var photos []*Photo
	for i, f := range files {
		normalized, err := s.processor.Normalize(f.Content)
		if err != nil {
			return photos, ErrNotAnImage
		}

		relPath := path.Join("cars", carID, uuid.NewString()+".jpg")
		if err := s.store.Save(ctx, relPath, normalized); err != nil {
			return photos, fmt.Errorf("failed to store photo: %w", err)
		}

		p := &Photo{
			CarID:        carID,
			PhotoURL:     urlPrefix + relPath,
			IsMain:       existing == 0 && i == 0,
			DisplayOrder: existing + i,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			// Best effort cleanup of the orphaned file.
			_ = s.store.Delete(ctx, relPath)
			return photos, err
		}
		photos = append(photos, p)
	}

	return photos, nil
}

func (s *service) ListByCar(ctx context.Context, carID string) ([]*Photo, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		return nil, err
	}
	return s.repo.ListByCar(ctx, carID)
}

func (s *service) Delete(ctx context.Context, id, callerID string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	v, err := s.cars.GetByID(ctx, p.CarID)
	if err != nil {
		return err
	}
	if v.OwnerID != callerID {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// The row is the source of truth; a leftover file is harmless.
	if relPath, ok := strings.CutPrefix(p.PhotoURL, urlPrefix); ok {
		_ = s.store.Delete(ctx, relPath)
	}

	return nil
}
