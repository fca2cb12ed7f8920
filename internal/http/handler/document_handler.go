package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/julesapp/crm-api/internal/storage"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// List godoc
// @Summary List documents
// @Tags Documents
// @Produce json
// @Success 200 {array} domain.DocumentDTO
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// Upload godoc
// @Summary Upload document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param clientId formData string false "Client the document belongs to"
// @Param projectId formData string false "Project the document belongs to"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUploadMB * 1024 * 1024
	// room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024)

	if err := r.ParseMultipartForm(limit); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
		ClientID:    r.FormValue("clientId"),
		ProjectID:   r.FormValue("projectId"),
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "upload document")
		return
	}

	w.Header().Set("Location", "/api/v1/documents/"+doc.ID)
	respondJSON(w, http.StatusCreated, doc)
}

// GetByID godoc
// @Summary Get document metadata
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.DocumentDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documentService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Download godoc
// @Summary Download document
// @Tags Documents
// @Produce application/octet-stream
// @Param id path string true "Document ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, reader, err := h.documentService.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			h.logger.Warn("document has no stored file", zap.String("document_id", chi.URLParam(r, "id")))
			respondWithError(w, http.StatusNotFound, "File not found")
			return
		}
		respondServiceError(w, h.logger, err, "download document")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.Header().Set("Content-Type", doc.ContentType)
	if doc.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("document download interrupted", zap.String("document_id", doc.ID), zap.Error(err))
	}
}

// Update godoc
// @Summary Rename or relink a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body domain.DocumentUpdateRequest true "Document data"
// @Success 200 {object} domain.DocumentDTO
// @Security BearerAuth
// @Router /documents/{id} [put]
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.DocumentUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.documentService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Param id path string true "Document ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
