package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/models/dtos"
	"riverbend/portal/internal/services"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

// ListDocumentsHandler handles GET /api/documents?category=
//
// Only documents at an access level the caller's role can view are
// returned. Without a session that is public only.
func ListDocumentsHandler(documentSvc *services.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		docs, err := documentSvc.List(r.Context(), callerRole(r), r.URL.Query().Get("category"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Documents fetched", docs)
	}
}

// DownloadDocumentHandler handles GET /api/documents/{id}/download
//
// Streams the file after re-checking the caller may view it. Documents
// above the caller's level answer 404.
func DownloadDocumentHandler(documentSvc *services.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		doc, body, err := documentSvc.Open(r.Context(), callerRole(r), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", doc.MimeType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if doc.SizeBytes > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
		}
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, body); err != nil {
			logging.FromContext(r.Context()).Warnw("Document download interrupted", "document_id", doc.ID, "error", err.Error())
		}
	}
}

// UploadDocumentHandler handles POST /api/documents (multipart/form-data)
//
// Form fields: title, description, category, accessLevel and the file part
// "file". Board members may upload up to board level, admins any level.
func UploadDocumentHandler(documentSvc *services.DocumentService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondError(w, initTime, err, constants.MsgUploadTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			common.RespondErrorFields(w, initTime, err, "Validation failed",
				map[string]string{"file": "This field is required"}, http.StatusBadRequest)
			return
		}
		defer file.Close()

		req := dtos.DocumentUploadRequest{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			AccessLevel: r.FormValue("accessLevel"),
		}

		doc, err := documentSvc.Upload(r.Context(), callerRole(r), callerID(r), req, services.Upload{
			FileName: header.Filename,
			Size:     header.Size,
			Body:     file,
		})
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Document uploaded", doc, http.StatusCreated)
	}
}

// DeleteDocumentHandler handles DELETE /api/documents/{id}
func DeleteDocumentHandler(documentSvc *services.DocumentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := documentSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Document deleted", nil)
	}
}

// ============================================================================
// Handler Methods (Wrapped for DI pattern - Hybrid Approach)
// ============================================================================

func (h *Handlers) ListDocuments() http.HandlerFunc {
	return ListDocumentsHandler(h.deps.Services.Document)
}

func (h *Handlers) DownloadDocument() http.HandlerFunc {
	return DownloadDocumentHandler(h.deps.Services.Document)
}

func (h *Handlers) UploadDocument() http.HandlerFunc {
	maxBytes := h.deps.Config.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = constants.MaxUploadBytes
	}
	return UploadDocumentHandler(h.deps.Services.Document, maxBytes)
}

func (h *Handlers) DeleteDocument() http.HandlerFunc {
	return DeleteDocumentHandler(h.deps.Services.Document)
}
