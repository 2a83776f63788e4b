package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NFT is a listed item. Creator is set once from the authenticated caller.
type NFT struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ItemTitle   string             `bson:"itemTitle"     json:"itemTitle"`
	Description string             `bson:"description"   json:"description"`
	Price       float64            `bson:"price"         json:"price"`
	Royalties   float64            `bson:"royalties"     json:"royalties"`
	Picture     string             `bson:"picture"       json:"picture"`
	Creator     primitive.ObjectID `bson:"creator"       json:"creator"`
}

// NFTInput is the metadata of POST /nfts. Numbers are pointers so a supplied
// zero is distinguishable from an absent field.
type NFTInput struct {
	ItemTitle   string   `json:"itemTitle"   form:"itemTitle"   validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	Price       *float64 `json:"price"       form:"price"       validate:"required"`
	Royalties   *float64 `json:"royalties"   form:"royalties"   validate:"required"`
}

// NFTChanges is a partial update. Empty strings and zero numbers keep the
// stored value.
type NFTChanges struct {
	ItemTitle   string  `json:"itemTitle"   form:"itemTitle"`
	Description string  `json:"description" form:"description"`
	Price       Number `json:"price"       form:"price"`
	Royalties   Number `json:"royalties"   form:"royalties"`
	Picture     string `json:"-"`
}

// Number is a float64 that also decodes from a numeric JSON string ("20").
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) == 0 || data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%q is not a number", s)
	}
	*n = Number(f)
	return nil
}

// Fields returns the $set document for the non-empty changes.
func (c NFTChanges) Fields() bson.M {
	set := bson.M{}
	if c.ItemTitle != "" {
		set["itemTitle"] = c.ItemTitle
	}
	if c.Description != "" {
		set["description"] = c.Description
	}
	if c.Price != 0 {
		set["price"] = float64(c.Price)
	}
	if c.Royalties != 0 {
		set["royalties"] = float64(c.Royalties)
	}
	if c.Picture != "" {
		set["picture"] = c.Picture
	}
	return set
}

// ApplyTo overwrites n with the non-empty changes.
func (c NFTChanges) ApplyTo(n *NFT) {
	if c.ItemTitle != "" {
		n.ItemTitle = c.ItemTitle
	}
	if c.Description != "" {
		n.Description = c.Description
	}
	if c.Price != 0 {
		n.Price = float64(c.Price)
	}
	if c.Royalties != 0 {
		n.Royalties = float64(c.Royalties)
	}
	if c.Picture != "" {
		n.Picture = c.Picture
	}
}
