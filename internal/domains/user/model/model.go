package model

import "travelnest/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldMobile    = "mobile"
	FieldAddress   = "address"
	FieldPassword  = "password"
	FieldRole      = "role"
)

type User struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	Mobile    string `db:"mobile"`
	Address   string `db:"address"`
	Password  string `db:"password"`
	Role      string `db:"role"`
	model.Metadata
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
