package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"riverbend/portal/internal/access"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

var errUploadTooLarge = errors.New("upload exceeds size limit")

type DocumentService struct {
	documents *repositories.DocumentRepository
	storage   common.FileStorage
	validate  *validator.Validator
	metrics   *metrics.MetricsRegistry
	maxBytes  int64
}

func NewDocumentService(
	documents *repositories.DocumentRepository,
	storage common.FileStorage,
	validate *validator.Validator,
	m *metrics.MetricsRegistry,
	maxBytes int64,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		storage:   storage,
		validate:  validate,
		metrics:   m,
		maxBytes:  maxBytes,
	}
}

// Upload is the file half of a document upload. size is the declared
// length from the multipart header; the stream is also capped while copying.
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

func (s *DocumentService) Upload(ctx context.Context, role constants.Role, uploaderID string, req dtos.DocumentUploadRequest, file Upload) (*dtos.DocumentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}
	level := constants.AccessLevel(req.AccessLevel)
	if !access.CanAssign(role, level) {
		return nil, Unauthorized(constants.MsgAccessLevelDenied)
	}
	if file.Size > s.maxBytes {
		return nil, TooLarge(constants.MsgUploadTooLarge)
	}

	mime, allowed, body, err := common.DetectDocumentType(file.Body)
	if err != nil {
		return nil, Internal(err)
	}
	if !allowed {
		logging.Info("Rejected document upload", "mime", mime, "file", file.FileName)
		return nil, Validation(constants.MsgUploadTypeRejected, nil)
	}

	counter := &cappedReader{r: body, remaining: s.maxBytes}
	key, url, err := s.storage.Save(ctx, file.FileName, counter)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return nil, TooLarge(constants.MsgUploadTooLarge)
		}
		return nil, Internal(err)
	}

	doc := &gormModels.Document{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		AccessLevel: level,
		FileName:    common.SanitizeFileName(file.FileName),
		FileURL:     url,
		StoragePath: key,
		MimeType:    mime,
		SizeBytes:   counter.read,
		UploadedBy:  uploaderID,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logging.Warn("Failed to remove orphaned upload", "key", key, "error", delErr)
		}
		return nil, Internal(err)
	}

	s.metrics.DocumentsUploadedTotal.WithLabelValues(string(level)).Inc()
	resp := toDocumentResponse(doc)
	return &resp, nil
}

// List returns the documents role may see, optionally in one category.
func (s *DocumentService) List(ctx context.Context, role constants.Role, category string) ([]dtos.DocumentResponse, error) {
	docs, err := s.documents.List(ctx, strings.ToLower(strings.TrimSpace(category)), access.AllowedLevels(role))
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]dtos.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i]))
	}
	return out, nil
}

// Open returns the stored file for download. Documents the role cannot
// view are reported as missing.
func (s *DocumentService) Open(ctx context.Context, role constants.Role, id string) (*dtos.DocumentResponse, io.ReadCloser, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fromRepo(err, "Document not found")
	}
	if !access.CanView(role, doc.AccessLevel) {
		return nil, nil, NotFound("Document not found", nil)
	}

	rc, err := s.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, Internal(err)
	}
	resp := toDocumentResponse(doc)
	return &resp, rc, nil
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Document not found")
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return fromRepo(err, "Document not found")
	}
	if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
		logging.Warn("Failed to remove document file", "key", doc.StoragePath, "error", err)
	}
	return nil
}

// cappedReader counts bytes and fails once more than remaining are read.
type cappedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, errUploadTooLarge
	}
	return n, err
}
