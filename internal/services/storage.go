package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidExtension = fmt.Errorf("invalid file extension")
	ErrInvalidSignature = fmt.Errorf("invalid or expired download link")
)

// DocumentStore is keyed blob storage for uploaded files. Blob names are
// opaque to callers; time-limited read access is granted through signed URLs.
type DocumentStore interface {
	Save(file *multipart.FileHeader, prefix string, allowedExts ...string) (string, error)
	Exists(name string) bool
	Open(name string) (io.ReadCloser, int64, error)
	Remove(name string) error
	SignedURL(name string, expiry time.Duration) (string, error)
	VerifySignedName(name, expires, signature string) error
	EnsureUploadDir() error
}

type documentStore struct {
	uploadPath string
	baseURL    string
	signingKey []byte
}

func NewDocumentStore(uploadPath, baseURL, signingKey string) DocumentStore {
	return &documentStore{
		uploadPath: uploadPath,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signingKey: []byte(signingKey),
	}
}

func (s *documentStore) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *documentStore) Save(file *multipart.FileHeader, prefix string, allowedExts ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, a := range allowedExts {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	// Generate the unique blob name
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return name, nil
}

func (s *documentStore) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(s.uploadPath, filepath.Base(name)))
	return err == nil && !info.IsDir()
}

func (s *documentStore) Open(name string) (io.ReadCloser, int64, error) {
	path := filepath.Join(s.uploadPath, filepath.Base(name))
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("blob not found: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, info.Size(), nil
}

func (s *documentStore) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.uploadPath, filepath.Base(name))); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SignedURL returns a time-limited download link for a blob. The signature
// covers the blob name and the expiry timestamp.
func (s *documentStore) SignedURL(name string, expiry time.Duration) (string, error) {
	if !s.Exists(name) {
		return "", fmt.Errorf("blob not found: %s", name)
	}

	expires := time.Now().Add(expiry).Unix()
	sig := s.sign(name, strconv.FormatInt(expires, 10))

	return fmt.Sprintf("%s/api/v1/files/%s?expires=%d&sig=%s",
		s.baseURL, url.PathEscape(name), expires, sig), nil
}

func (s *documentStore) VerifySignedName(name, expires, signature string) error {
	expiresAt, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || time.Now().Unix() > expiresAt {
		return ErrInvalidSignature
	}

	expected := s.sign(name, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (s *documentStore) sign(name, expires string) string {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(name))
	mac.Write([]byte{'|'})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}
