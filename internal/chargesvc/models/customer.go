package models

import "go.mongodb.org/mongo-driver/bson"

type Customer struct {
	Document `bson:",inline"`
	Name     string `bson:"nombre" json:"nombre"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"telefono" json:"telefono"`
}

type CreateCustomer struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Phone string `json:"telefono"`
}

// CustomerUpdate is a partial update, nil fields are left untouched.
type CustomerUpdate struct {
	Name  *string `json:"nombre,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"telefono,omitempty"`
}

func (u CustomerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil
}

// Fields returns the bson $set document for the update.
func (u CustomerUpdate) Fields() bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["nombre"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Phone != nil {
		set["telefono"] = *u.Phone
	}
	return set
}

// Apply mirrors Fields for in-memory records.
func (u CustomerUpdate) Apply(c *Customer) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
}
