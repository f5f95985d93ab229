package model

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User is a row of the users table.
type User struct {
	Base
	Firstname string `json:"firstname" gorm:"column:firstname;not null"`
	Lastname  string `json:"lastname" gorm:"column:lastname;not null"`
	Email     string `json:"email" gorm:"column:email;not null;uniqueIndex:users_email_key"`
}

// TableName pins the table name used by the ORM.
func (User) TableName() string {
	return "users"
}

// Updatable user columns. Anything else in a request body is ignored.
const (
	FieldFirstname = "firstname"
	FieldLastname  = "lastname"
	FieldEmail     = "email"
)

// UserFields is a column -> value set restricted to the updatable columns.
type UserFields map[string]string

// Apply copies the allowed fields onto u.
func (f UserFields) Apply(u *User) {
	if v, ok := f[FieldFirstname]; ok {
		u.Firstname = v
	}
	if v, ok := f[FieldLastname]; ok {
		u.Lastname = v
	}
	if v, ok := f[FieldEmail]; ok {
		u.Email = v
	}
}

// Email returns the email being set, if any.
func (f UserFields) Email() (string, bool) {
	v, ok := f[FieldEmail]
	return v, ok
}

// ParseUserID turns a path segment into a user id. Anything that is not a
// positive integer maps to 0, which the store never issues, so lookups
// with it come back as not found.
func ParseUserID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// ------------------------------------------------------------

type ListUsersPayload struct{}

func (p *ListUsersPayload) Validate() error {
	return nil
}

// ------------------------------------------------------------

type CreateUserPayload struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// Normalize trims surrounding whitespace, so a blank name fails required.
func (p *CreateUserPayload) Normalize() {
	p.Firstname = strings.TrimSpace(p.Firstname)
	p.Lastname = strings.TrimSpace(p.Lastname)
	p.Email = strings.TrimSpace(p.Email)
}

func (p *CreateUserPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// ------------------------------------------------------------

type GetUserByIDPayload struct {
	// json:"-" keeps an "id" key in the body from overriding the path.
	ID string `param:"id" json:"-" validate:"-"`
}

func (p *GetUserByIDPayload) Validate() error {
	return nil
}

func (p *GetUserByIDPayload) UserID() int64 {
	return ParseUserID(p.ID)
}

// ------------------------------------------------------------

// UpdateUserPayload has partial semantics: an absent field is left
// untouched. A field that is present must be a string; null is rejected.
type UpdateUserPayload struct {
	ID        string         `param:"id" json:"-" validate:"-"`
	Firstname OptionalString `json:"firstname" validate:"omitempty,min=1"`
	Lastname  OptionalString `json:"lastname" validate:"omitempty,min=1"`
	Email     OptionalString `json:"email" validate:"omitempty,email"`
}

// updateValidator sees an OptionalString as a *string, and reports a
// present null under the "string" tag.
var updateValidator = newUpdateValidator()

func newUpdateValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(OptionalString).ptr()
	}, OptionalString{})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(UpdateUserPayload)
		for _, f := range []struct {
			value OptionalString
			json  string
			name  string
		}{
			{p.Firstname, FieldFirstname, "Firstname"},
			{p.Lastname, FieldLastname, "Lastname"},
			{p.Email, FieldEmail, "Email"},
		} {
			if f.value.Null {
				sl.ReportError(nil, f.json, f.name, "string", "")
			}
		}
	}, UpdateUserPayload{})

	return validate
}

// Normalize trims surrounding whitespace from every supplied field.
func (p *UpdateUserPayload) Normalize() {
	for _, f := range []*OptionalString{&p.Firstname, &p.Lastname, &p.Email} {
		if f.Supplied() {
			f.Value = strings.TrimSpace(f.Value)
		}
	}
}

func (p *UpdateUserPayload) Validate() error {
	return updateValidator.Struct(p)
}

func (p *UpdateUserPayload) UserID() int64 {
	return ParseUserID(p.ID)
}

// Fields returns the supplied fields, keyed by column.
func (p *UpdateUserPayload) Fields() UserFields {
	fields := UserFields{}
	if p.Firstname.Supplied() {
		fields[FieldFirstname] = p.Firstname.Value
	}
	if p.Lastname.Supplied() {
		fields[FieldLastname] = p.Lastname.Value
	}
	if p.Email.Supplied() {
		fields[FieldEmail] = p.Email.Value
	}
	return fields
}

// ------------------------------------------------------------

type DeleteUserPayload struct {
	ID string `param:"id" json:"-" validate:"-"`
}

func (p *DeleteUserPayload) Validate() error {
	return nil
}

func (p *DeleteUserPayload) UserID() int64 {
	return ParseUserID(p.ID)
}
