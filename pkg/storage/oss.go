package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

// OSSConfig holds the Aliyun OSS connection settings.
type OSSConfig struct {
	Endpoint      string
	AccessKeyID   string
	AccessSecret  string
	Bucket        string
	PublicBaseURL string
}

// OSSStorage stores objects in an Aliyun OSS bucket, creating the bucket on first use.
type OSSStorage struct {
	client *oss.Client
	cfg    OSSConfig
	logger *zap.Logger

	once      sync.Once
	bucket    *oss.Bucket
	bucketErr error
}

// NewOSSStorage builds the OSS client; no network call happens until the first Put.
func NewOSSStorage(cfg OSSConfig, logger *zap.Logger) (*OSSStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessSecret == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss endpoint, credentials and bucket are required")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OSSStorage{client: client, cfg: cfg, logger: logger}, nil
}

// Put ensures the bucket exists, uploads the object and returns its public URL.
func (s *OSSStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	clean, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	bucket, err := s.ensureBucket()
	if err != nil {
		return "", err
	}
	opts := []oss.Option{oss.WithContext(ctx), oss.ContentDisposition("inline")}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := bucket.PutObject(clean, r, opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", clean, err)
	}
	return s.PublicURL(clean), nil
}

// PublicURL renders the stable URL for a stored key.
func (s *OSSStorage) PublicURL(key string) string {
	if base := strings.TrimSpace(s.cfg.PublicBaseURL); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	endpoint := s.cfg.Endpoint
	scheme := "https"
	if strings.HasPrefix(endpoint, "http://") {
		scheme = "http"
	}
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, strings.TrimRight(endpoint, "/"), s.cfg.Bucket, key)
}

func (s *OSSStorage) ensureBucket() (*oss.Bucket, error) {
	s.once.Do(func() {
		exists, err := s.client.IsBucketExist(s.cfg.Bucket)
		if err != nil {
			s.bucketErr = fmt.Errorf("check bucket %s: %w", s.cfg.Bucket, err)
			return
		}
		if !exists {
			if err := s.client.CreateBucket(s.cfg.Bucket); err != nil {
				s.bucketErr = fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
				return
			}
			s.logger.Info("oss bucket created", zap.String("bucket", s.cfg.Bucket))
		}
		s.bucket, s.bucketErr = s.client.Bucket(s.cfg.Bucket)
	})
	return s.bucket, s.bucketErr
}
