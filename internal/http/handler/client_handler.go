package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService  *service.ClientService
	contactService *service.ContactService
	logger         *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, contactService *service.ContactService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		contactService: contactService,
		logger:         logger,
	}
}

// List godoc
// @Summary List clients
// @Description List the signed-in user's clients, newest first. With q, matches name, email, phone or company.
// @Tags Clients
// @Produce json
// @Param q query string false "Case-insensitive search text"
// @Success 200 {array} domain.ClientDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		clients []domain.ClientDTO
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		clients, err = h.clientService.Search(r.Context(), q)
	} else {
		clients, err = h.clientService.List(r.Context())
	}
	if err != nil {
		respondServiceError(w, h.logger, err, "list clients")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// ProjectOptions godoc
// @Summary Project names used by clients
// @Tags Clients
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /clients/project-options [get]
func (h *ClientHandler) ProjectOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.clientService.ProjectOptions(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list project options")
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// GetByID godoc
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.ClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create client")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+client.ID)
	respondJSON(w, http.StatusCreated, client)
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.ClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Description Requires confirm=true
// @Tags Clients
// @Param id path string true "Client ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Failure 428 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListContacts godoc
// @Summary List a client's contacts
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} domain.ContactDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id}/contacts [get]
func (h *ClientHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.ListByClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "list contacts")
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

// CreateContact godoc
// @Summary Add a contact person to a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.ContactRequest true "Contact data"
// @Success 201 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id}/contacts [post]
func (h *ClientHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Create(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create contact")
		return
	}
	respondJSON(w, http.StatusCreated, contact)
}

// UpdateContact godoc
// @Summary Update a contact person
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param contactId path string true "Contact ID"
// @Param request body domain.ContactRequest true "Contact data"
// @Success 200 {object} domain.ContactDTO
// @Security BearerAuth
// @Router /clients/{id}/contacts/{contactId} [put]
func (h *ClientHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), chi.URLParam(r, "contactId"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update contact")
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary Remove a contact person
// @Tags Clients
// @Param id path string true "Client ID"
// @Param contactId path string true "Contact ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /clients/{id}/contacts/{contactId} [delete]
func (h *ClientHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), chi.URLParam(r, "contactId"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete contact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
