package entity

import (
	"net/http"
	"time"

	"facture/lib/validate"
)

// User is the authenticated business user issuing documents. The
// profile fields feed the issuer snapshot printed on generated PDFs.
type User struct {
	Id           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	CompanyName  string    `json:"company_name" bson:"company_name"`
	Address      *Address  `json:"address,omitempty" bson:"address,omitempty"`
	Siret        string    `json:"siret" bson:"siret"`
	IntracomVat  string    `json:"intracom_vat" bson:"intracom_vat"`
	Logo         string    `json:"logo,omitempty" bson:"logo,omitempty"`
	Rib          *RIB      `json:"rib,omitempty" bson:"rib,omitempty"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
}

// Issuer is a snapshot of the user's business identity captured into a
// generated document, independent of later profile edits.
type Issuer struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	CompanyName string   `json:"company_name"`
	Address     *Address `json:"address,omitempty"`
	Siret       string   `json:"siret"`
	IntracomVat string   `json:"intracom_vat"`
	Logo        string   `json:"logo,omitempty"`
	Rib         *RIB     `json:"rib,omitempty"`
	Email       string   `json:"email"`
}

// Issuer captures the current profile into a document snapshot.
func (u *User) Issuer() Issuer {
	return Issuer{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CompanyName: u.CompanyName,
		Address:     u.Address,
		Siret:       u.Siret,
		IntracomVat: u.IntracomVat,
		Logo:        u.Logo,
		Rib:         u.Rib,
		Email:       u.Email,
	}
}

type UserRegister struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	FirstName   string   `json:"first_name" validate:"required"`
	LastName    string   `json:"last_name" validate:"required"`
	CompanyName string   `json:"company_name" validate:"required"`
	Address     *Address `json:"address,omitempty"`
	Siret       string   `json:"siret" validate:"required"`
	IntracomVat string   `json:"intracom_vat" validate:"required"`
	Logo        string   `json:"logo,omitempty"`
	Rib         *RIB     `json:"rib,omitempty"`
}

func (u *UserRegister) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (u *UserLogin) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

// UserUpdate is a partial profile update.
type UserUpdate struct {
	FirstName   *string  `json:"first_name,omitempty"`
	LastName    *string  `json:"last_name,omitempty"`
	CompanyName *string  `json:"company_name,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Siret       *string  `json:"siret,omitempty"`
	IntracomVat *string  `json:"intracom_vat,omitempty"`
	Logo        *string  `json:"logo,omitempty"`
	Rib         *RIB     `json:"rib,omitempty"`
}

func (u *UserUpdate) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func (u *UserUpdate) Apply(user *User) {
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.CompanyName != nil {
		user.CompanyName = *u.CompanyName
	}
	if u.Address != nil {
		user.Address = u.Address
	}
	if u.Siret != nil {
		user.Siret = *u.Siret
	}
	if u.IntracomVat != nil {
		user.IntracomVat = *u.IntracomVat
	}
	if u.Logo != nil {
		user.Logo = *u.Logo
	}
	if u.Rib != nil {
		user.Rib = u.Rib
	}
}
