package booking

import (
	"context"
	"strings"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// GuestStore is the part of the guest repository the resolver needs.
// FindByEmail returns nil, nil when no guest has the email.
type GuestStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Guest, error)
	Create(ctx context.Context, g *model.Guest) error
}

// ResolveGuest returns the id of the guest a booking belongs to.  With an
// email the existing guest is reused untouched when one matches; without
// one a new guest is always created.
func ResolveGuest(ctx context.Context, store GuestStore, name, email, phone string) (string, error) {
	email = strings.TrimSpace(email)
	if email != "" {
		g, err := store.FindByEmail(ctx, email)
		if err != nil {
			return "", apperr.Wrap(apperr.DataUnavailable, "Could not look up guest", err)
		}
		if g != nil {
			return g.ID, nil
		}
	}

	g := &model.Guest{Name: strings.TrimSpace(name)}
	if email != "" {
		g.Email = &email
	}
	if p := strings.TrimSpace(phone); p != "" {
		g.Phone = &p
	}
	if err := store.Create(ctx, g); err != nil {
		return "", apperr.Wrap(apperr.DataUnavailable, "Could not create guest", err)
	}
	return g.ID, nil
}
