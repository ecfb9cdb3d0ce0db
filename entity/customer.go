package entity

import (
	"fmt"
	"net/http"

	"facture/lib/validate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a billing recipient, scoped to the user who created it.
// A company customer is addressed by its name, a private one by first
// and last name.
type Customer struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      string             `json:"user" bson:"user"`
	Company   bool               `json:"company" bson:"company"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	FirstName string             `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Address   *Address           `json:"address,omitempty" bson:"address,omitempty"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
}

func (c *Customer) Bind(_ *http.Request) error {
	if c.Company && c.Name == "" {
		return fmt.Errorf("name is required for a company customer")
	}
	return validate.Struct(c)
}

// OwnedBy reports whether the customer belongs to the given user.
func (c *Customer) OwnedBy(user string) bool {
	return c.User == user
}
