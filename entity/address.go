package entity

// Address is a plain postal address, embedded in customers, users and
// generated documents. It has no identity of its own.
type Address struct {
	Street  string `json:"address" bson:"address" validate:"required"`
	ZipCode int    `json:"zip_code" bson:"zip_code" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
}

// RIB holds the bank details printed on an invoice footer.
type RIB struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	Iban string `json:"iban" bson:"iban" validate:"required"`
	Bic  string `json:"bic" bson:"bic" validate:"required"`
}
