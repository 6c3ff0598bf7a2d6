package models

import "github.com/google/uuid"

// User : User Model
type User struct {
	ID       uuid.UUID `json:"id" bun:",pk,type:uuid,default:gen_random_uuid()"`
	Name     string    `json:"name" bun:",notnull"`
	Email    string    `json:"email" bun:",unique,notnull"`
	Password string    `json:"-" bun:",notnull"`
}
