package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	// Register standard decoders so image.Decode recognizes them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rumbo-cms/rumbo/internal/audit"
)

const (
	// maxUploadSize is the maximum allowed upload file size (10 MiB).
	maxUploadSize = 10 << 20

	// variantWorkers bounds how many image variants are generated
	// concurrently per upload.
	variantWorkers = 3
)

// allowedMIMETypes is the set of MIME types accepted for upload.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"image/webp":       true,
	"application/pdf":  true,
	"text/plain":       true,
	"text/csv":         true,
	"application/json": true,
}

// imageMIMETypes is the subset of allowed types that support variant
// generation.
var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// mimeToExtension maps validated MIME types to canonical extensions.
// Extensions come from the MIME type, never from user input.
var mimeToExtension = map[string]string{
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"application/pdf":  ".pdf",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
	"application/json": ".json",
}

type imageVariant struct {
	Name     string
	MaxWidth int
}

var imageVariants = []imageVariant{
	{Name: "sm", MaxWidth: 480},
	{Name: "md", MaxWidth: 1024},
	{Name: "lg", MaxWidth: 1920},
}

// Service implements media upload, variant processing, and deletion.
type Service struct {
	repo         *Repository
	storage      *LocalStorage
	auditService *audit.Service
}

// NewService creates a new media Service. The audit service is optional;
// if nil, audit events are silently skipped.
func NewService(repo *Repository, storage *LocalStorage, auditService *audit.Service) *Service {
	return &Service{
		repo:         repo,
		storage:      storage,
		auditService: auditService,
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.auditService != nil {
		s.auditService.Log(ctx, event)
	}
}

// UploadError is a user-facing upload validation error.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// Upload processes a multipart file upload: validates, saves the original
// and any image variants, and creates the database record.
func (s *Service) Upload(ctx context.Context, fh *multipart.FileHeader, adminID string) (*Media, error) {
	if fh.Size > maxUploadSize {
		return nil, &UploadError{Message: fmt.Sprintf("file size %d exceeds maximum of %d bytes", fh.Size, maxUploadSize)}
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading uploaded file: %w", err)
	}
	if int64(len(data)) > maxUploadSize {
		return nil, &UploadError{Message: fmt.Sprintf("file size exceeds maximum of %d bytes", maxUploadSize)}
	}

	mimeType, err := resolveMIMEType(data, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	ext, ok := mimeToExtension[mimeType]
	if !ok {
		ext = ".bin"
	}
	storedName := uuid.NewString() + ext

	if err := s.storage.Save("original", storedName, data); err != nil {
		return nil, fmt.Errorf("saving original file: %w", err)
	}

	m := &Media{
		Filename:     storedName,
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Variants:     make(map[string]string),
		UploadedBy:   &adminID,
	}

	if imageMIMETypes[mimeType] {
		s.processImageVariants(m, storedName, data, mimeType)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.cleanupFiles(storedName, m.Variants)
		return nil, fmt.Errorf("creating media record: %w", err)
	}

	s.logAudit(ctx, audit.Event{
		Action:     "media.upload",
		ActorID:    adminID,
		Resource:   "media",
		ResourceID: m.ID,
	})

	return m, nil
}

// resolveMIMEType reconciles the sniffed content type with the client
// header. A detected type outside the allowlist rejects the file no matter
// what the header claims; the generic octet-stream fallback defers to the
// header when that is allowed.
func resolveMIMEType(data []byte, headerMIME string) (string, error) {
	detected := http.DetectContentType(data[:min(512, len(data))])
	if idx := strings.IndexByte(detected, ';'); idx != -1 {
		detected = strings.TrimSpace(detected[:idx])
	}
	if idx := strings.IndexByte(headerMIME, ';'); idx != -1 {
		headerMIME = strings.TrimSpace(headerMIME[:idx])
	}

	mimeType := detected
	if detected == "application/octet-stream" {
		if allowedMIMETypes[headerMIME] {
			mimeType = headerMIME
		}
	} else if allowedMIMETypes[detected] {
		// Prefer the header when it is also allowed and more specific,
		// e.g. text/csv over text/plain.
		if headerMIME != "" && allowedMIMETypes[headerMIME] {
			mimeType = headerMIME
		}
	}

	if !allowedMIMETypes[mimeType] {
		return "", &UploadError{Message: fmt.Sprintf("MIME type '%s' is not allowed", mimeType)}
	}
	return mimeType, nil
}

// processImageVariants decodes the image, records its dimensions, and
// generates resized variants concurrently, bounded by variantWorkers.
// Failures are logged per variant and never fail the upload.
func (s *Service) processImageVariants(m *Media, filename string, data []byte, mimeType string) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Warn("failed to decode image for variant generation", "filename", filename, "error", err)
		return
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	m.Width = &width
	m.Height = &height

	variantFormat := formatFromMIME(mimeType)
	variantExt := variantExtension(mimeType)
	variantFilename := replaceExt(filename, variantExt)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(variantWorkers)

	for _, v := range imageVariants {
		if width <= v.MaxWidth {
			continue
		}

		g.Go(func() error {
			// Malformed images can panic deep inside the resampler;
			// contain it to this variant.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic during variant generation",
						"variant", v.Name, "filename", filename, "panic", fmt.Sprintf("%v", r))
				}
			}()

			resized := imaging.Resize(img, v.MaxWidth, 0, imaging.Lanczos)
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, resized, variantFormat); err != nil {
				slog.Warn("failed to encode image variant",
					"variant", v.Name, "filename", filename, "error", err)
				return nil
			}

			if err := s.storage.Save(v.Name, variantFilename, buf.Bytes()); err != nil {
				slog.Warn("failed to save image variant",
					"variant", v.Name, "filename", filename, "error", err)
				return nil
			}

			mu.Lock()
			m.Variants[v.Name] = v.Name + "/" + variantFilename
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // workers report failures via logs, never errors
}

// cleanupFiles removes the original and any variant files from storage.
func (s *Service) cleanupFiles(filename string, variantPaths map[string]string) {
	if err := s.storage.Delete("original", filename); err != nil {
		slog.Warn("failed to clean up original file", "filename", filename, "error", err)
	}
	for variant, path := range variantPaths {
		variantFilename := filename
		if parts := strings.SplitN(path, "/", 2); len(parts) == 2 {
			variantFilename = parts[1]
		}
		if err := s.storage.Delete(variant, variantFilename); err != nil {
			slog.Warn("failed to clean up variant file", "variant", variant, "filename", variantFilename, "error", err)
		}
	}
}

// Delete removes a media record and its files from storage.
func (s *Service) Delete(ctx context.Context, id, adminID string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// File removal is best-effort; failures are logged.
	s.cleanupFiles(m.Filename, m.Variants)

	s.logAudit(ctx, audit.Event{
		Action:     "media.delete",
		ActorID:    adminID,
		Resource:   "media",
		ResourceID: id,
	})
	return nil
}

// List retrieves a paginated list of media records.
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Media, int, error) {
	return s.repo.List(ctx, page, perPage)
}

// GetByFilename retrieves a media record by its generated filename.
func (s *Service) GetByFilename(ctx context.Context, filename string) (*Media, error) {
	return s.repo.GetByFilename(ctx, filename)
}

// formatFromMIME returns the encoding format for variants. WebP cannot be
// encoded by the imaging library, so PNG preserves transparency instead.
func formatFromMIME(mimeType string) imaging.Format {
	switch mimeType {
	case "image/jpeg":
		return imaging.JPEG
	case "image/png":
		return imaging.PNG
	case "image/gif":
		return imaging.GIF
	case "image/webp":
		return imaging.PNG
	default:
		return imaging.JPEG
	}
}

// variantExtension returns the extension for variant files. WebP originals
// get .png variants since those are encoded as PNG.
func variantExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".png"
	default:
		return ".jpg"
	}
}

// replaceExt replaces the file extension on filename with newExt.
func replaceExt(filename, newExt string) string {
	ext := strings.LastIndex(filename, ".")
	if ext == -1 {
		return filename + newExt
	}
	return filename[:ext] + newExt
}

// isValidVariant checks if a variant name is one of the recognized variants.
func isValidVariant(v string) bool {
	return validVariants[v]
}

// AllowedMIMEType reports whether the given MIME type is in the allowlist.
func AllowedMIMEType(mimeType string) bool {
	return allowedMIMETypes[mimeType]
}

// IsImageMIME reports whether the given MIME type supports variant
// generation.
func IsImageMIME(mimeType string) bool {
	return imageMIMETypes[mimeType]
}

// IsUploadError reports whether err is a user-facing upload validation
// error.
func IsUploadError(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}
