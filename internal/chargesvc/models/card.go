package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinPANLength = 13
	MaxPANLength = 19
	MaskChar     = "*"
)

// Card is the stored view of a registered card. The full PAN never
// reaches this struct.
type Card struct {
	Document   `bson:",inline"`
	CustomerID primitive.ObjectID `bson:"cliente_id" json:"cliente_id"`
	PANMasked  string             `bson:"pan_masked" json:"pan_masked"`
	BIN        string             `bson:"bin" json:"bin"`
	Last4      string             `bson:"last4" json:"last4"`
	Alias      string             `bson:"alias,omitempty" json:"alias,omitempty"`
	HolderName string             `bson:"holder_name,omitempty" json:"holder_name,omitempty"`
}

type RegisterCard struct {
	CustomerID string `json:"cliente_id"`
	PAN        string `json:"pan_completo"`
	Alias      string `json:"alias,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}

// NewCard derives the masked card from an already validated pan.
func NewCard(customerID primitive.ObjectID, pan string, now time.Time) *Card {
	return &Card{
		Document:   NewDocument(now),
		CustomerID: customerID,
		PANMasked:  MaskPAN(pan),
		BIN:        firstN(pan, 6),
		Last4:      LastN(pan, 4),
	}
}

// MaskPAN keeps the last four digits and masks everything before them.
func MaskPAN(pan string) string {
	n := len(pan)
	if n <= 4 {
		return strings.Repeat(MaskChar, n)
	}
	return strings.Repeat(MaskChar, n-4) + pan[n-4:]
}

func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// CardUpdate carries the card metadata that may change after registration.
type CardUpdate struct {
	Alias      *string `json:"alias,omitempty"`
	HolderName *string `json:"holder_name,omitempty"`
}

func (u CardUpdate) IsEmpty() bool {
	return u.Alias == nil && u.HolderName == nil
}

func (u CardUpdate) Fields() bson.M {
	set := bson.M{}
	if u.Alias != nil {
		set["alias"] = *u.Alias
	}
	if u.HolderName != nil {
		set["holder_name"] = *u.HolderName
	}
	return set
}

func (u CardUpdate) Apply(c *Card) {
	if u.Alias != nil {
		c.Alias = *u.Alias
	}
	if u.HolderName != nil {
		c.HolderName = *u.HolderName
	}
}
