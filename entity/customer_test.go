package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomerBind(t *testing.T) {
	cases := []struct {
		name     string
		customer Customer
		wantErr  bool
	}{
		{
			name:     "company with name",
			customer: Customer{Company: true, Name: "ACME SARL"},
		},
		{
			name:     "company without name",
			customer: Customer{Company: true},
			wantErr:  true,
		},
		{
			name:     "private person",
			customer: Customer{FirstName: "Jean", LastName: "Dupont"},
		},
		{
			name:     "invalid email",
			customer: Customer{FirstName: "Jean", Email: "not-an-email"},
			wantErr:  true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.customer.Bind(nil)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
