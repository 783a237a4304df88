// Package storage handles file uploads (campaign covers, avatars, supporting
// documents) to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/edufund/core/internal/config"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20 // 5 MiB

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// Uploader stores objects in an S3-compatible bucket and returns public URLs.
type Uploader struct {
	client       *s3.Client
	bucket       string
	customDomain string
	publicBase   string
}

// NewUploader builds the S3 client from config. Returns nil when storage is
// disabled; the handler degrades to 503 in that case.
func NewUploader(cfg config.StorageConfig) *Uploader {
	if !cfg.Enable {
		return nil
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.PathStyleAccess,
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(strings.TrimSuffix(endpoint, "/"))
		// Non-AWS endpoints generally only speak path-style.
		opts.UsePathStyle = true
	}

	publicBase := ""
	if opts.BaseEndpoint != nil {
		publicBase = *opts.BaseEndpoint + "/" + cfg.Bucket
	} else {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Uploader{
		client:       s3.New(opts),
		bucket:       cfg.Bucket,
		customDomain: strings.TrimRight(strings.TrimSpace(cfg.CustomDomain), "/"),
		publicBase:   publicBase,
	}
}

// Put uploads the payload and returns its public URL.
func (u *Uploader) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return u.PublicURL(key), nil
}

// PublicURL maps an object key to its browser-reachable URL.
func (u *Uploader) PublicURL(key string) string {
	if u.customDomain != "" {
		return u.customDomain + "/" + key
	}
	return u.publicBase + "/" + key
}

func objectKey(filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	ct, ok := allowedExtensions[ext]
	if !ok {
		return "", "", apperr.Validation("unsupported file type %q", ext)
	}
	now := time.Now()
	key = fmt.Sprintf("uploads/%d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)
	return key, ct, nil
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > maxUploadBytes {
		return nil, apperr.Validation("file exceeds the %d MB limit", maxUploadBytes>>20)
	}
	f, err := file.Open()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer f.Close()

	payload, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(payload) > maxUploadBytes {
		return nil, apperr.Validation("file exceeds the %d MB limit", maxUploadBytes>>20)
	}
	return payload, nil
}

type Handler struct{ uploader *Uploader }

func NewHandler(uploader *Uploader) *Handler { return &Handler{uploader: uploader} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/upload", authMW, h.upload)
	rg.POST("/upload/cover", authMW, h.upload)
}

// POST /upload
func (h *Handler) upload(c *gin.Context) {
	if h.uploader == nil {
		c.AbortWithStatusJSON(503, gin.H{"success": false, "error": "file storage is not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "a file field is required")
		return
	}

	key, contentType, err := objectKey(file.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := readUpload(file)
	if err != nil {
		response.Error(c, err)
		return
	}

	url, err := h.uploader.Put(c.Request.Context(), key, payload, contentType)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"url": url, "key": key, "size": len(payload)})
}
