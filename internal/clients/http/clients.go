package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/pkg/clientsdk"
	"github.com/aussiebroadwan/clientdesk/pkg/httpx"
)

// ClientsHandler serves the client CRUD routes. Every route sits behind the
// admin gate, so handlers assume an authorised caller.
type ClientsHandler struct {
	ClientService *service.ClientService
	Pagination    Pagination
}

// HandleList returns a page of clients
//
//	@Summary		List clients
//	@Description	Returns every client, inactive ones included, in insertion order unless ordering is given.
//	@Tags			Clients
//	@Produce		json
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Number of clients to skip"
//	@Param			search		query		string	false	"Case-insensitive match on name or email"
//	@Param			ordering	query		string	false	"One of id, -id, name, -name, created_at, -created_at"
//	@Success		200			{object}	clientsdk.ClientList
//	@Failure		401			{object}	clientsdk.ErrorResponse	"Missing, invalid or expired token"
//	@Failure		403			{object}	clientsdk.ErrorResponse	"Caller is not an admin"
//	@Security		BearerAuth
//	@Router			/clients/ [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination.params(r)
	q := r.URL.Query()

	page, err := h.ClientService.List(r.Context(), service.ListQuery{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeServiceError(w, r, err, "list")
		return
	}

	next, prev := h.Pagination.links(r, page.Count, limit, offset)
	results := make([]clientsdk.Client, len(page.Clients))
	for i, c := range page.Clients {
		results[i] = toClient(c)
	}

	httpx.WriteJSON(w, http.StatusOK, clientsdk.ClientList{
		Count:    page.Count,
		Next:     next,
		Previous: prev,
		Results:  results,
	})
}

// HandleCreate adds a client
//
//	@Summary		Create a client
//	@Description	Creates an active client. Status and created_at in the body are ignored.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clientsdk.CreateClientRequest	true	"Client fields"
//	@Success		201		{object}	clientsdk.Client
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse
//	@Failure		403		{object}	clientsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/clients/add/ [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r)
	if err != nil {
		writeMalformedBody(w)
		return
	}

	f := newFieldReader(fields)
	name, _ := f.str("name", false)
	email, _ := f.str("email", false)
	phone, _ := f.str("phone", true)
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	c, err := h.ClientService.Create(r.Context(), service.ClientInput{
		Name:  deref(name),
		Email: deref(email),
		Phone: phone,
	})
	if err != nil {
		writeServiceError(w, r, err, "create")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toClient(c))
}

// HandleGet returns one client
//
//	@Summary		Get a client
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		int	true	"Client ID"
//	@Success		200	{object}	clientsdk.Client
//	@Failure		401	{object}	clientsdk.ErrorResponse
//	@Failure		403	{object}	clientsdk.ErrorResponse
//	@Failure		404	{object}	clientsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/clients/{id}/ [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		writeClientNotFound(w)
		return
	}

	c, err := h.ClientService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "get")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClient(c))
}

// HandleUpdate partially updates a client
//
//	@Summary		Update a client
//	@Description	Merges the given fields into the client. PUT behaves like PATCH. An empty body leaves the client unchanged.
//	@Description	Status may be set to inactive; an inactive client cannot be reactivated.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Client ID"
//	@Param			request	body		clientsdk.UpdateClientRequest	false	"Fields to change"
//	@Success		200		{object}	clientsdk.UpdateClientResponse
//	@Failure		400		{object}	clientsdk.ValidationErrorResponse
//	@Failure		401		{object}	clientsdk.ErrorResponse
//	@Failure		403		{object}	clientsdk.ErrorResponse
//	@Failure		404		{object}	clientsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/clients/{id}/update/ [patch]
//	@Router			/clients/{id}/update/ [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		writeClientNotFound(w)
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		writeMalformedBody(w)
		return
	}

	f := newFieldReader(fields)
	var patch service.ClientPatch
	patch.Name, _ = f.str("name", false)
	patch.Email, _ = f.str("email", false)
	patch.Phone, patch.PhoneSet = f.str("phone", true)
	if s, _ := f.str("status", false); s != nil {
		status := domain.ClientStatus(*s)
		patch.Status = &status
	}
	if !f.valid() {
		writeValidationError(w, f.errs)
		return
	}

	c, err := h.ClientService.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, "update")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientsdk.UpdateClientResponse{
		Message: "Client updated",
		Client:  toClient(c),
	})
}

// HandleDelete soft-deletes a client
//
//	@Summary		Deactivate a client
//	@Description	Marks the client inactive. The record is kept and deactivating twice succeeds.
//	@Tags			Clients
//	@Produce		json
//	@Param			id	path		int	true	"Client ID"
//	@Success		200	{object}	clientsdk.MessageResponse
//	@Failure		401	{object}	clientsdk.ErrorResponse
//	@Failure		403	{object}	clientsdk.ErrorResponse
//	@Failure		404	{object}	clientsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/clients/{id}/delete/ [patch]
//	@Router			/clients/{id}/delete/ [put].
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := clientID(r)
	if !ok {
		writeClientNotFound(w)
		return
	}

	if _, err := h.ClientService.SoftDelete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, clientsdk.MessageResponse{Message: "Client deactivated"})
}

// clientID reads the {id} path segment. Only positive integers name a
// client; anything else is reported as not found.
func clientID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toClient(c domain.Client) clientsdk.Client {
	return clientsdk.Client{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
