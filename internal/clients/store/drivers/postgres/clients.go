package postgres

import (
	"context"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store/drivers/postgres/gen"
)

type clientsRepo struct {
	q *gen.Queries
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	row, err := r.q.CreateClient(ctx, gen.CreateClientParams{
		Name:  c.Name,
		Email: c.Email,
		Phone: mapOptionalString(c.Phone),
	})
	if err != nil {
		return domain.Client{}, err
	}
	return mapClient(row), nil
}

func (r *clientsRepo) ListClients(ctx context.Context, p store.ListClientsParams) ([]domain.Client, error) {
	rows, err := r.q.ListClients(ctx, gen.ListClientsParams{
		Search:    store.EscapeLike(p.Search),
		Ordering:  string(p.Ordering),
		RowLimit:  p.Limit,
		RowOffset: p.Offset,
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapClient(row))
	}
	return out, nil
}

func (r *clientsRepo) CountClients(ctx context.Context, search string) (int64, error) {
	return r.q.CountClients(ctx, store.EscapeLike(search))
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id int64) (domain.Client, error) {
	row, err := r.q.GetClientByID(ctx, id)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row), nil
}

func (r *clientsRepo) UpdateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	row, err := r.q.UpdateClient(ctx, gen.UpdateClientParams{
		Name:   c.Name,
		Email:  c.Email,
		Phone:  mapOptionalString(c.Phone),
		Status: string(c.Status),
		ID:     c.ID,
	})
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row), nil
}

func (r *clientsRepo) SoftDeleteClient(ctx context.Context, id int64) (domain.Client, error) {
	row, err := r.q.SoftDeleteClient(ctx, id)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row), nil
}
