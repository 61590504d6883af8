package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"imagegen/internal/generator"
	"imagegen/internal/log"
	"imagegen/internal/model"
	"imagegen/internal/storage"
)

const (
	imageExt         = ".png"
	imageContentType = "image/png"
)

var (
	ErrPromptRequired = errors.New("prompt is required")
	ErrNotFound       = errors.New("image not found")
)

// ImageService defines the use cases for generated images.
type ImageService interface {
	// Generate asks the generator for an image and stores it under a new random filename.
	// Generator and storage errors are returned unwrapped.
	Generate(ctx context.Context, prompt string) (*model.Image, error)

	// Open returns a reader over a stored image. The caller must close it.
	Open(ctx context.Context, filename string) (io.ReadCloser, *model.Image, error)
}

// imageService is a concrete implementation of ImageService.
type imageService struct {
	gen   generator.Generator
	store storage.Storage
}

// NewImageService constructs a new ImageService.
func NewImageService(gen generator.Generator, store storage.Storage) ImageService {
	return &imageService{gen: gen, store: store}
}

// newFilename returns 8 random lowercase hex characters plus the png suffix.
func newFilename() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + imageExt
}

func (s *imageService) Generate(ctx context.Context, prompt string) (*model.Image, error) {
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	ctx, span := otel.Tracer("imagegen/service").Start(ctx, "ImageService.Generate")
	defer span.End()

	data, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	filename := newFilename()
	span.SetAttributes(attribute.String("image.filename", filename), attribute.Int("image.size", len(data)))

	info, err := s.store.Put(ctx, filename, bytes.NewReader(data), storage.PutObjectOptions{
		ContentType: imageContentType,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	log.FromContextOrDiscard(ctx).Info("image stored", "filename", filename, "size", info.Size)

	return &model.Image{
		Filename:    filename,
		Size:        info.Size,
		ContentType: imageContentType,
		CreatedAt:   info.LastModified.UTC(),
	}, nil
}

func (s *imageService) Open(ctx context.Context, filename string) (io.ReadCloser, *model.Image, error) {
	rc, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return rc, &model.Image{
		Filename:    filename,
		Size:        info.Size,
		ContentType: imageContentType,
		CreatedAt:   info.LastModified.UTC(),
	}, nil
}
