package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/clientdesk/internal/clients/domain"
	"github.com/aussiebroadwan/clientdesk/internal/clients/service"
	"github.com/aussiebroadwan/clientdesk/internal/clients/store"
	"github.com/stretchr/testify/require"
)

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	svc := &service.ClientService{Store: newStore(t)}

	t.Run("valid client starts active", func(t *testing.T) {
		c, err := svc.Create(ctx, service.ClientInput{
			Name:  "  Ada Lovelace ",
			Email: "ada@example.com",
			Phone: strPtr("555-0100"),
		})
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", c.Name)
		require.Equal(t, domain.StatusActive, c.Status)
		require.False(t, c.CreatedAt.IsZero())
	})

	t.Run("blank phone becomes null", func(t *testing.T) {
		c, err := svc.Create(ctx, service.ClientInput{Name: "Grace", Email: "grace@example.com", Phone: strPtr("  ")})
		require.NoError(t, err)
		require.Nil(t, c.Phone)
	})

	tests := []struct {
		name   string
		in     service.ClientInput
		fields []string
	}{
		{"missing everything", service.ClientInput{}, []string{"name", "email"}},
		{"blank name", service.ClientInput{Name: "   ", Email: "a@example.com"}, []string{"name"}},
		{"bad email", service.ClientInput{Name: "A", Email: "not-an-email"}, []string{"email"}},
		{"long name", service.ClientInput{Name: strings.Repeat("x", 256), Email: "a@example.com"}, []string{"name"}},
		{"long phone", service.ClientInput{Name: "A", Email: "a@example.com", Phone: strPtr(strings.Repeat("1", 21))}, []string{"phone"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			ve, ok := service.IsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			for _, f := range tc.fields {
				require.Contains(t, ve.Fields, f)
			}
			require.Len(t, ve.Fields, len(tc.fields))
		})
	}

	t.Run("255 characters is fine", func(t *testing.T) {
		_, err := svc.Create(ctx, service.ClientInput{Name: strings.Repeat("é", 255), Email: "long@example.com"})
		require.NoError(t, err)
	})
}

func TestClientService_List(t *testing.T) {
	ctx := context.Background()
	svc := &service.ClientService{Store: newStore(t)}

	for _, n := range []string{"Ada", "Bob", "Cy"} {
		_, err := svc.Create(ctx, service.ClientInput{Name: n, Email: strings.ToLower(n) + "@example.com"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, service.ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), page.Count)
	require.Len(t, page.Clients, 2)
	require.Equal(t, "Ada", page.Clients[0].Name)

	page, err = svc.List(ctx, service.ListQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Clients, 1)
	require.Equal(t, "Cy", page.Clients[0].Name)

	page, err = svc.List(ctx, service.ListQuery{Ordering: "-name"})
	require.NoError(t, err)
	require.Equal(t, "Cy", page.Clients[0].Name)

	page, err = svc.List(ctx, service.ListQuery{Ordering: "bogus"})
	require.NoError(t, err)
	require.Equal(t, "Ada", page.Clients[0].Name)

	page, err = svc.List(ctx, service.ListQuery{Search: "BOB"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Count)
	require.Equal(t, "Bob", page.Clients[0].Name)

	page, err = svc.List(ctx, service.ListQuery{Search: "nobody"})
	require.NoError(t, err)
	require.Zero(t, page.Count)
	require.Empty(t, page.Clients)
}

func TestClientService_GetUnknown(t *testing.T) {
	svc := &service.ClientService{Store: newStore(t)}

	_, err := svc.Get(context.Background(), 999999)
	require.ErrorIs(t, err, service.ErrClientNotFound)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	svc := &service.ClientService{Store: newStore(t)}

	create := func(t *testing.T) domain.Client {
		t.Helper()
		c, err := svc.Create(ctx, service.ClientInput{Name: "Ada", Email: "ada@example.com", Phone: strPtr("555-0100")})
		require.NoError(t, err)
		return c
	}

	t.Run("phone only", func(t *testing.T) {
		c := create(t)
		got, err := svc.Update(ctx, c.ID, service.ClientPatch{Phone: strPtr("555-0199"), PhoneSet: true})
		require.NoError(t, err)
		require.Equal(t, "555-0199", *got.Phone)
		require.Equal(t, c.Name, got.Name)
		require.Equal(t, c.Email, got.Email)
		require.Equal(t, c.CreatedAt, got.CreatedAt)
		require.Equal(t, c.ID, got.ID)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		c := create(t)
		got, err := svc.Update(ctx, c.ID, service.ClientPatch{})
		require.NoError(t, err)
		require.Equal(t, c, got)
	})

	t.Run("clear phone", func(t *testing.T) {
		c := create(t)
		got, err := svc.Update(ctx, c.ID, service.ClientPatch{PhoneSet: true})
		require.NoError(t, err)
		require.Nil(t, got.Phone)
	})

	t.Run("invalid email rejected and nothing written", func(t *testing.T) {
		c := create(t)
		_, err := svc.Update(ctx, c.ID, service.ClientPatch{Name: strPtr("New"), Email: strPtr("nope")})
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "email")

		got, err := svc.Get(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada", got.Name)
	})

	t.Run("deactivate through patch", func(t *testing.T) {
		c := create(t)
		got, err := svc.Update(ctx, c.ID, service.ClientPatch{Status: statusPtr(domain.StatusInactive)})
		require.NoError(t, err)
		require.Equal(t, domain.StatusInactive, got.Status)

		_, err = svc.Update(ctx, c.ID, service.ClientPatch{Status: statusPtr(domain.StatusActive)})
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		require.Contains(t, ve.Fields, "status")
	})

	t.Run("active on active is allowed", func(t *testing.T) {
		c := create(t)
		got, err := svc.Update(ctx, c.ID, service.ClientPatch{Status: statusPtr(domain.StatusActive)})
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, got.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		c := create(t)
		_, err := svc.Update(ctx, c.ID, service.ClientPatch{Status: statusPtr("archived")})
		ve, ok := service.IsValidationError(err)
		require.True(t, ok)
		require.Equal(t, `"archived" is not a valid choice.`, ve.Fields["status"])
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, 999999, service.ClientPatch{Name: strPtr("x")})
		require.ErrorIs(t, err, service.ErrClientNotFound)

		_, err = svc.Update(ctx, 999999, service.ClientPatch{})
		require.ErrorIs(t, err, service.ErrClientNotFound)
	})
}

func TestClientService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	svc := &service.ClientService{Store: newStore(t)}

	c, err := svc.Create(ctx, service.ClientInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	for range 2 {
		got, err := svc.SoftDelete(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusInactive, got.Status)
	}

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, got.Status)

	_, err = svc.SoftDelete(ctx, 999999)
	require.ErrorIs(t, err, service.ErrClientNotFound)
}
