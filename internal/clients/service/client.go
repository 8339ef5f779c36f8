package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/pkg/slogx"
)

// ErrClientNotFound is returned for unknown client ids. It matches
// store.ErrNotFound under errors.Is.
var ErrClientNotFound = fmt.Errorf("client not found: %w", store.ErrNotFound)

// DefaultListLimit applies when ListQuery.Limit is not positive.
const DefaultListLimit = 10

// ClientInput is the writable part of a client. Surrounding whitespace is
// trimmed before validation and a blank phone is stored as null.
type ClientInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email string  `json:"email" validate:"required,email,max=254"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

func (in *ClientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if p == "" {
			in.Phone = nil
		} else {
			in.Phone = &p
		}
	}
}

// ClientPatch is a partial update. Nil fields are left alone; PhoneSet with a
// nil Phone clears the phone.
type ClientPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	PhoneSet bool
	Status   *domain.ClientStatus
}

func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && !p.PhoneSet && p.Status == nil
}

type ListQuery struct {
	Search   string
	Ordering string
	Limit    int64
	Offset   int64
}

type Page struct {
	Count   int64
	Clients []domain.Client
}

type ClientService struct {
	Store store.Store
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (domain.Client, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return domain.Client{}, err
	}

	c, err := s.Store.Clients().CreateClient(ctx, domain.Client{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	})
	if err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client created", "client_id", c.ID)
	return c, nil
}

// List returns one page of clients plus the total matching the search.
func (s *ClientService) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	q.Offset = max(q.Offset, 0)
	search := strings.TrimSpace(q.Search)

	count, err := s.Store.Clients().CountClients(ctx, search)
	if err != nil {
		return Page{}, err
	}

	clients, err := s.Store.Clients().ListClients(ctx, store.ListClientsParams{
		Search:   search,
		Ordering: store.ParseOrdering(q.Ordering),
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Count: count, Clients: clients}, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (domain.Client, error) {
	c, err := s.Store.Clients().GetClientByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}

// Update merges the present fields of p into the stored client. An empty
// patch returns the client unchanged. Status may move to inactive but an
// inactive client cannot be reactivated.
func (s *ClientService) Update(ctx context.Context, id int64, p ClientPatch) (domain.Client, error) {
	var out domain.Client

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		cur, err := tx.Clients().GetClientByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		if err != nil {
			return err
		}

		if p.IsEmpty() {
			out = cur
			return nil
		}

		merged, err := applyPatch(cur, p)
		if err != nil {
			return err
		}

		out, err = tx.Clients().UpdateClient(ctx, merged)
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	})
	if err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client updated", "client_id", id)
	return out, nil
}

func applyPatch(cur domain.Client, p ClientPatch) (domain.Client, error) {
	in := ClientInput{Name: cur.Name, Email: cur.Email, Phone: cur.Phone}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Email != nil {
		in.Email = *p.Email
	}
	if p.PhoneSet {
		in.Phone = p.Phone
	}
	in.normalize()

	verr := &ValidationError{Fields: map[string]string{}}
	if err := validateStruct(in); err != nil {
		ve, ok := IsValidationError(err)
		if !ok {
			return domain.Client{}, err
		}
		verr = ve
	}

	status := cur.Status
	if p.Status != nil {
		switch {
		case !p.Status.Valid():
			verr.Fields["status"] = fmt.Sprintf("%q is not a valid choice.", string(*p.Status))
		case *p.Status == domain.StatusActive && !cur.IsActive():
			verr.Fields["status"] = "Inactive clients cannot be reactivated."
		default:
			status = *p.Status
		}
	}
	if len(verr.Fields) > 0 {
		return domain.Client{}, verr
	}

	cur.Name = in.Name
	cur.Email = in.Email
	cur.Phone = in.Phone
	cur.Status = status
	return cur, nil
}

// SoftDelete marks the client inactive. Deleting an inactive client again
// succeeds and changes nothing.
func (s *ClientService) SoftDelete(ctx context.Context, id int64) (domain.Client, error) {
	c, err := s.Store.Clients().SoftDeleteClient(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	if err != nil {
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client deactivated", "client_id", id)
	return c, nil
}
