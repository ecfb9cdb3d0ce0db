package database

import (
	"testing"

	"facture/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func filterMap(t *testing.T, filter bson.D) map[string]interface{} {
	t.Helper()
	out := make(map[string]interface{}, len(filter))
	for _, e := range filter {
		out[e.Key] = e.Value
	}
	return out
}

// Customers are stored with omitempty tags, so a duplicate check on an
// empty field must match the absent key. A plain {"field": ""} clause
// never matches a document the store wrote.
func TestCustomerFilterMatchesAbsentFields(t *testing.T) {
	customer := &entity.Customer{User: "user-1", Company: true, Name: "ACME SARL"}

	got := filterMap(t, customerFilter(customer))

	assert.Equal(t, "user-1", got["user"])
	assert.Equal(t, true, got["company"])
	assert.Equal(t, "ACME SARL", got["name"])

	absent := bson.D{{Key: "$exists", Value: false}}
	assert.Equal(t, absent, got["first_name"])
	assert.Equal(t, absent, got["last_name"])
	assert.Equal(t, absent, got["email"])
	assert.Equal(t, absent, got["phone"])
	assert.Equal(t, absent, got["address"])
}

func TestCustomerFilterMatchesPopulatedFields(t *testing.T) {
	address := &entity.Address{Street: "1 rue de la Paix", ZipCode: 75002, City: "Paris"}
	customer := &entity.Customer{
		User:      "user-1",
		FirstName: "Jean",
		LastName:  "Dupont",
		Email:     "jean@example.com",
		Phone:     "0601020304",
		Address:   address,
	}

	got := filterMap(t, customerFilter(customer))

	assert.Equal(t, "Jean", got["first_name"])
	assert.Equal(t, "Dupont", got["last_name"])
	assert.Equal(t, "jean@example.com", got["email"])
	assert.Equal(t, "0601020304", got["phone"])
	assert.Equal(t, address, got["address"])
	assert.Equal(t, bson.D{{Key: "$exists", Value: false}}, got["name"])
}

func TestCustomerFilterNeverMatchesOnEmptyString(t *testing.T) {
	filter := customerFilter(&entity.Customer{User: "user-1", Company: true, Name: "ACME SARL"})
	for _, e := range filter {
		require.NotEqual(t, "", e.Value, "clause %q would miss omitempty storage", e.Key)
	}
}
