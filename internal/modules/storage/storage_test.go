package storage

import (
	"strings"
	"testing"

	"github.com/edufund/core/internal/config"
	"github.com/gin-gonic/gin"
)

func TestObjectKeyAllowedTypes(t *testing.T) {
	for _, name := range []string{"photo.jpg", "scan.PDF", "cover.webp", "avatar.PNG"} {
		key, contentType, err := objectKey(name)
		if err != nil {
			t.Errorf("objectKey(%q): %v", name, err)
			continue
		}
		if !strings.HasPrefix(key, "uploads/") {
			t.Errorf("key %q should live under uploads/", key)
		}
		if contentType == "" {
			t.Errorf("objectKey(%q) returned empty content type", name)
		}
	}
}

func TestObjectKeyRejectsUnknownTypes(t *testing.T) {
	for _, name := range []string{"script.exe", "page.html", "noextension", "archive.zip"} {
		if _, _, err := objectKey(name); err == nil {
			t.Errorf("objectKey(%q) should be rejected", name)
		}
	}
}

func TestObjectKeyUnique(t *testing.T) {
	a, _, _ := objectKey("photo.jpg")
	b, _, _ := objectKey("photo.jpg")
	if a == b {
		t.Error("same filename should yield distinct object keys")
	}
}

func TestNewUploaderDisabled(t *testing.T) {
	if u := NewUploader(config.StorageConfig{}); u != nil {
		t.Error("disabled storage should yield a nil uploader")
	}
}

func TestPublicURLCustomDomain(t *testing.T) {
	u := NewUploader(config.StorageConfig{
		Enable:          true,
		Bucket:          "edufund-media",
		Region:          "eu-west-3",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		CustomDomain:    "https://cdn.edufund.ma/",
	})
	got := u.PublicURL("uploads/2026/08/x.png")
	want := "https://cdn.edufund.ma/uploads/2026/08/x.png"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestPublicURLDefaultsToBucketHost(t *testing.T) {
	u := NewUploader(config.StorageConfig{
		Enable:          true,
		Bucket:          "edufund-media",
		Region:          "eu-west-3",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
	})
	got := u.PublicURL("uploads/x.png")
	want := "https://edufund-media.s3.eu-west-3.amazonaws.com/uploads/x.png"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestPublicURLCustomEndpoint(t *testing.T) {
	u := NewUploader(config.StorageConfig{
		Enable:          true,
		Bucket:          "edufund-media",
		Region:          "auto",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        "minio.internal:9000",
	})
	got := u.PublicURL("uploads/x.png")
	want := "https://minio.internal:9000/edufund-media/uploads/x.png"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestRegisterRoutesServesCoverAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).RegisterRoutes(r.Group("/api"), func(c *gin.Context) {})

	for _, path := range []string{"/api/upload", "/api/upload/cover"} {
		found := false
		for _, ri := range r.Routes() {
			if ri.Method == "POST" && ri.Path == path {
				found = true
			}
		}
		if !found {
			t.Errorf("missing route POST %s", path)
		}
	}
}
