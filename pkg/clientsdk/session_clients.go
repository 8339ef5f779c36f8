package clientsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListClients returns one page of clients, inactive ones included.
func (s *Session) ListClients(ctx context.Context, opts ListClientsOptions) (*ClientList, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Ordering != "" {
		q.Set("ordering", opts.Ordering)
	}

	path := "/clients/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list ClientList
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Session) GetClient(ctx context.Context, id int64) (*Client, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, clientPath(id, ""), nil)
	if err != nil {
		return nil, err
	}

	var c Client
	if err := decodeJSON(resp, &c, http.StatusOK); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Session) CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/clients/add/", req)
	if err != nil {
		return nil, err
	}

	var c Client
	if err := decodeJSON(resp, &c, http.StatusCreated); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateClient applies a partial update and returns the stored client.
func (s *Session) UpdateClient(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, clientPath(id, "update/"), req)
	if err != nil {
		return nil, err
	}

	var out UpdateClientResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Client, nil
}

// DeactivateClient soft-deletes a client. Deactivating an inactive client
// succeeds.
func (s *Session) DeactivateClient(ctx context.Context, id int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, clientPath(id, "delete/"), nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

func clientPath(id int64, suffix string) string {
	return "/clients/" + strconv.FormatInt(id, 10) + "/" + suffix
}
