package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alayatales/temple-api/internal/core/domain"
	"github.com/alayatales/temple-api/internal/core/ports"
)

const defaultMaxImages = 5

// TempleDeps groups the collaborators of TempleService. Idempotency may be nil.
type TempleDeps struct {
	Repo        ports.TempleRepository
	Images      ports.ImageStore
	Janitor     ports.ImageJanitor
	Idempotency ports.IdempotencyStore
	MaxImages   int
}

type TempleService struct {
	repo      ports.TempleRepository
	images    ports.ImageStore
	janitor   ports.ImageJanitor
	idem      ports.IdempotencyStore
	maxImages int
	logger    zerolog.Logger
	now       func() time.Time
}

func NewTempleService(deps TempleDeps, logger zerolog.Logger) *TempleService {
	maxImages := deps.MaxImages
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	return &TempleService{
		repo:      deps.Repo,
		images:    deps.Images,
		janitor:   deps.Janitor,
		idem:      deps.Idempotency,
		maxImages: maxImages,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *TempleService) List(ctx context.Context, query string) ([]*domain.Temple, error) {
	temples, err := s.repo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list temples: %w", err)
	}
	if temples == nil {
		temples = []*domain.Temple{}
	}
	return temples, nil
}

func (s *TempleService) Get(ctx context.Context, id string) (*domain.Temple, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores the uploaded images and persists a new temple. If an
// idempotency key is provided and already produced a temple, that temple is
// returned without side effects. A key still held by an in-flight request is
// a conflict.
func (s *TempleService) Create(ctx context.Context, input ports.CreateTempleInput) (*ports.CreateTempleResult, error) {
	if err := s.checkImageCount(len(input.Images), true); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	temple := &domain.Temple{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Timings:     input.Timings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := temple.ValidateDetails(); err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	owned := false
	if key != "" && s.idem != nil {
		existing, claimed, err := s.claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ports.CreateTempleResult{Temple: existing, Replayed: true}, nil
		}
		owned = claimed
	}

	paths, err := s.storeImages(ctx, input.Images)
	if err != nil {
		s.release(ctx, key, owned)
		return nil, err
	}
	temple.Images = paths

	created, err := s.repo.Create(ctx, temple)
	if err != nil {
		s.janitor.Enqueue(paths...)
		s.release(ctx, key, owned)
		s.logger.Error().Err(err).Msg("failed to create temple")
		return nil, fmt.Errorf("create temple: %w", err)
	}

	if owned {
		if err := s.idem.Complete(ctx, key, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("temple_id", created.ID).Int("images", len(paths)).Msg("temple created")
	return &ports.CreateTempleResult{Temple: created}, nil
}

// Update overwrites only the provided fields. Images are replaced wholesale,
// and only when new files were uploaded.
func (s *TempleService) Update(ctx context.Context, input ports.UpdateTempleInput) (*domain.Temple, error) {
	temple, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if v := trimmed(input.Name); v != "" {
		temple.Name = v
	}
	if v := trimmed(input.Description); v != "" {
		temple.Description = v
	}
	if v := trimmed(input.Location); v != "" {
		temple.Location = v
	}
	if input.SetTimings {
		if len(input.Timings) == 0 {
			return nil, fmt.Errorf("%w: at least one timing is required", domain.ErrValidation)
		}
		temple.Timings = input.Timings
	}
	if err := temple.Validate(); err != nil {
		return nil, err
	}

	var replaced []string
	if len(input.Images) > 0 {
		if err := s.checkImageCount(len(input.Images), false); err != nil {
			return nil, err
		}
		paths, err := s.storeImages(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		replaced = temple.Images
		temple.Images = paths
	}
	temple.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Replace(ctx, temple)
	if err != nil {
		if replaced != nil {
			s.janitor.Enqueue(temple.Images...)
		}
		return nil, err
	}

	if len(replaced) > 0 {
		s.janitor.Enqueue(replaced...)
	}
	s.logger.Info().Str("temple_id", updated.ID).Msg("temple updated")
	return updated, nil
}

// Delete removes the temple and schedules its images for removal. Deleting an
// id that does not exist, including a second delete, returns ErrTempleNotFound.
func (s *TempleService) Delete(ctx context.Context, id string) error {
	temple, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.janitor.Enqueue(temple.Images...)
	s.logger.Info().Str("temple_id", id).Msg("temple deleted")
	return nil
}

// claim reserves an idempotency key. It returns the temple an earlier request
// created under the key, or claimed=true when this request now owns the key.
// If the store is unreachable the create goes ahead unprotected.
func (s *TempleService) claim(ctx context.Context, key string) (*domain.Temple, bool, error) {
	id, claimed, err := s.idem.Claim(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, creating anyway")
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}
	if id == "" {
		return nil, false, fmt.Errorf("%w: a request with this Idempotency-Key is still in progress", domain.ErrConflict)
	}

	existing, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		s.logger.Info().Str("idempotency_key", key).Str("temple_id", id).Msg("idempotent replay")
		return existing, false, nil
	case errors.Is(err, domain.ErrNotFound):
		// The earlier temple was deleted; this request takes the key over.
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("idempotent replay lookup: %w", err)
	}
}

func (s *TempleService) release(ctx context.Context, key string, owned bool) {
	if !owned {
		return
	}
	if err := s.idem.Release(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (s *TempleService) checkImageCount(n int, required bool) error {
	if required && n == 0 {
		return fmt.Errorf("%w: at least one image is required", domain.ErrValidation)
	}
	if n > s.maxImages {
		return fmt.Errorf("%w: at most %d images per request", domain.ErrValidation, s.maxImages)
	}
	return nil
}

// storeImages writes every upload and returns their public paths in upload
// order. On failure the files already written are handed to the janitor.
func (s *TempleService) storeImages(ctx context.Context, uploads []ports.UploadedImage) ([]string, error) {
	paths := make([]string, 0, len(uploads))
	for _, up := range uploads {
		path, err := s.storeImage(ctx, up)
		if err != nil {
			s.janitor.Enqueue(paths...)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *TempleService) storeImage(ctx context.Context, up ports.UploadedImage) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", up.Filename, err)
	}
	defer rc.Close()

	path, err := s.images.Save(ctx, imageName(s.now(), up.Filename), rc, up.Size, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("store image %q: %w", up.Filename, err)
	}
	return path, nil
}

// imageName derives the stored file name from the upload time and the
// original filename. Two uploads of the same name in the same millisecond
// collide; the later one wins.
func imageName(at time.Time, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), base)
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
