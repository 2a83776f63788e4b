package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account that can sign in and own NFTs.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username string             `bson:"username"      json:"username"`
	Email    string             `bson:"email"         json:"email"`
	Password string             `bson:"password"      json:"-"` // bcrypt hash
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max_bytes=72"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}
