package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"evently/internal/domain"
)

// MaxImageSize is the maximum accepted media upload size (10MB).
const MaxImageSize = 10 * 1024 * 1024

// allowedImageTypes maps accepted MIME types to canonical file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ValidImageType reports whether the content type is accepted for event media.
func ValidImageType(contentType string) bool {
	_, ok := allowedImageTypes[strings.ToLower(contentType)]
	return ok
}

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// S3Store is a domain.MediaStore backed by an S3 bucket. Object keys double
// as the media public IDs.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *slog.Logger
}

// NewS3Store creates an S3-backed media store. With no static credentials
// configured it falls back to the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn("media store using default AWS credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return &S3Store{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

var _ domain.MediaStore = (*S3Store)(nil)

// Upload streams the file to the bucket under the given folder and returns
// its public URL and object key.
func (s *S3Store) Upload(ctx context.Context, folder string, file *domain.FileUpload) (*domain.Media, error) {
	ext, ok := allowedImageTypes[strings.ToLower(file.ContentType)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, file.ContentType)
	}
	if file.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, MaxImageSize)
	}

	key := path.Join(folder, uuid.NewString()+ext)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file.Content,
		ContentType: aws.String(file.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	return &domain.Media{
		URL:      fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key),
		PublicID: key,
	}, nil
}

// Delete removes the object identified by publicID from the bucket.
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete media %s: %w", publicID, err)
	}
	return nil
}
