package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists objects on disk under a base directory and hands out signed download URLs.
type LocalStorage struct {
	baseDir string
	baseURL string
	signer  *SignedURLSigner
}

// NewLocalStorage ensures the base directory exists and returns a handle. baseURL is the public
// prefix the download route is mounted under, e.g. "/api/v1/files".
func NewLocalStorage(baseDir, baseURL string, signer *SignedURLSigner) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if signer == nil {
		return nil, fmt.Errorf("local storage requires a url signer")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/"), signer: signer}, nil
}

// Put copies the reader into <baseDir>/<key> and returns a signed URL for it.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	token, _, err := s.signer.Generate(clean)
	if err != nil {
		return "", fmt.Errorf("sign object url: %w", err)
	}
	return s.baseURL + "/" + token, nil
}

// OpenSigned validates a download token and opens the referenced object.
func (s *LocalStorage) OpenSigned(token string) (*os.File, string, error) {
	key, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", err
	}
	clean, err := SanitizeKey(key)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
	if err != nil {
		return nil, "", fmt.Errorf("open object: %w", err)
	}
	return file, filepath.Base(clean), nil
}
