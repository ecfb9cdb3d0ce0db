package core

import (
	"context"
	"log/slog"

	"facture/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCustomer stores a new customer for the requesting user. An
// exact-field duplicate is rejected.
func (c *Core) CreateCustomer(ctx context.Context, user *entity.User, customer *entity.Customer) error {
	customer.Id = primitive.NilObjectID
	customer.User = user.Id

	exists, err := c.db.CustomerExists(ctx, customer)
	if err != nil {
		return err
	}
	if exists {
		return entity.ErrConflict
	}
	if err = c.db.CreateCustomer(ctx, customer); err != nil {
		return err
	}
	c.log.Debug("customer created",
		slog.String("user", user.Id),
		slog.String("customer", customer.Id.Hex()),
	)
	return nil
}

// CustomerById fetches one customer, existence first, then ownership.
func (c *Core) CustomerById(ctx context.Context, user *entity.User, id primitive.ObjectID) (*entity.Customer, error) {
	customer, err := c.db.CustomerById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !customer.OwnedBy(user.Id) {
		return nil, entity.ErrForbidden
	}
	return customer, nil
}

// Customers lists the requesting user's customers.
func (c *Core) Customers(ctx context.Context, user *entity.User) ([]*entity.Customer, error) {
	return c.db.CustomersByUser(ctx, user.Id)
}

// CustomerStats aggregates invoice count and total spent per customer
// over the requesting user's invoices.
func (c *Core) CustomerStats(ctx context.Context, user *entity.User) ([]*entity.CustomerStats, error) {
	return c.db.CustomerStats(ctx, user.Id)
}
