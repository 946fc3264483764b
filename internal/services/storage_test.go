package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("resume", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["resume"][0]
}

func newTestStore(t *testing.T) DocumentStore {
	t.Helper()
	store := NewDocumentStore(t.TempDir(), "http://localhost:3000", "test-signing-key")
	if err := store.EnsureUploadDir(); err != nil {
		t.Fatalf("failed to ensure upload dir: %v", err)
	}
	return store
}

func TestDocumentStore_SaveOpenRemove(t *testing.T) {
	store := newTestStore(t)
	content := []byte("%PDF-1.4 fake resume bytes")

	name, err := store.Save(fileHeader(t, "cv.pdf", content), "resume", ".pdf", ".txt")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(name, "resume_") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("unexpected blob name: %s", name)
	}

	if !store.Exists(name) {
		t.Fatal("saved blob should exist")
	}

	rc, size, err := store.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) || size != int64(len(content)) {
		t.Errorf("blob round trip mismatch: %d bytes, want %d", len(got), len(content))
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists(name) {
		t.Error("removed blob should not exist")
	}
}

func TestDocumentStore_RejectsUnknownExtension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(fileHeader(t, "cv.exe", []byte("nope")), "resume", ".pdf", ".txt")
	if !errors.Is(err, ErrInvalidExtension) {
		t.Fatalf("expected ErrInvalidExtension, got %v", err)
	}
}

func TestDocumentStore_SignedURL(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Save(fileHeader(t, "cv.pdf", []byte("resume")), "resume", ".pdf")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	url, err := store.SignedURL(name, 10*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL failed: %v", err)
	}

	expires, sig := queryParams(t, url)
	if err := store.VerifySignedName(name, expires, sig); err != nil {
		t.Errorf("freshly signed URL should verify: %v", err)
	}

	t.Run("tampered signature is rejected", func(t *testing.T) {
		if err := store.VerifySignedName(name, expires, "deadbeef"); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("tampered name is rejected", func(t *testing.T) {
		if err := store.VerifySignedName("other.pdf", expires, sig); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("expired link is rejected", func(t *testing.T) {
		if err := store.VerifySignedName(name, "1000000", sig); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("missing blob cannot be signed", func(t *testing.T) {
		if _, err := store.SignedURL("resume_gone.pdf", time.Minute); err == nil {
			t.Error("expected an error signing a missing blob")
		}
	})
}

func queryParams(t *testing.T, rawURL string) (expires, sig string) {
	t.Helper()
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		t.Fatalf("signed URL has no query: %s", rawURL)
	}
	for _, pair := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(pair, "=")
		switch k {
		case "expires":
			expires = v
		case "sig":
			sig = v
		}
	}
	if expires == "" || sig == "" {
		t.Fatalf("signed URL missing expires/sig: %s", rawURL)
	}
	return expires, sig
}
