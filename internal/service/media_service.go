package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/idcard-api/internal/observability"
	"github.com/noah-isme/idcard-api/pkg/imaging"
)

var (
	// ErrImageRequired indicates a student photo was not supplied.
	ErrImageRequired = errors.New("image is required")
	// ErrUnsupportedImage indicates the payload is not a supported image.
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrImageTooLarge indicates the payload exceeded the configured limit.
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
)

// ImageKind names what an uploaded image is used for.
type ImageKind string

const (
	ImageKindPhoto     ImageKind = "photo"
	ImageKindLogo      ImageKind = "logo"
	ImageKindSignature ImageKind = "signature"
)

// MediaService validates, prepares and stores card images.
type MediaService interface {
	Store(ctx context.Context, kind ImageKind, image *ImageUpload) (string, error)
}

type mediaService struct {
	storage FileStorage
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewMediaService constructs the media service.
func NewMediaService(storage FileStorage, maxSizeMB int, logger zerolog.Logger) MediaService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &mediaService{
		storage: storage,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "media_service").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/idcard-api/internal/service/media"),
	}
}

// Store uploads the image and returns its URL. Photos are cropped to the card format first.
func (s *mediaService) Store(ctx context.Context, kind ImageKind, image *ImageUpload) (string, error) {
	ctx, span := s.tracer.Start(ctx, "media.store")
	defer span.End()
	span.SetAttributes(attribute.String("media.kind", string(kind)))

	start := time.Now()
	defer func() {
		observability.ImageUploadLatency().Observe(time.Since(start).Seconds())
	}()

	if image.Empty() {
		span.SetStatus(codes.Error, "missing image")
		return "", ErrImageRequired
	}
	span.SetAttributes(attribute.Int("media.request_size", len(image.Data)))

	if int64(len(image.Data)) > s.maxSize {
		observability.ImageUploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrImageTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrImageTooLarge
	}

	detected := mimetype.Detect(image.Data)
	span.SetAttributes(attribute.String("media.detected_mime", detected.String()))
	if !strings.HasPrefix(detected.String(), "image/") {
		observability.ImageUploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUnsupportedImage)
		span.SetStatus(codes.Error, "type not allowed")
		return "", ErrUnsupportedImage
	}

	payload := image.Data
	extension := detected.Extension()
	if kind == ImageKindPhoto {
		compressed, err := imaging.CardPhoto(image.Data)
		if err != nil {
			observability.ImageUploadRejected().WithLabelValues("decode").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode failed")
			return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		payload = compressed
		extension = ".jpg"
		span.SetAttributes(attribute.Int("media.compressed_size", len(payload)))
	}

	name := uploadName(kind, image.Name, extension)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(payload))
	if err != nil {
		observability.ImageUploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("image upload failed")
		return "", err
	}

	observability.ImageUploads().WithLabelValues(string(kind)).Inc()
	span.SetStatus(codes.Ok, "stored")
	return url, nil
}

func uploadName(kind ImageKind, original, extension string) string {
	base := strings.TrimSpace(original)
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	if base == "" {
		base = string(kind)
	}
	return base + extension
}
