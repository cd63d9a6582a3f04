// Package model holds the records shared by the store, the HTTP API and the
// walkthrough, together with their canonical text rendering.
package model

import "strings"

// User mirrors a row of the users table. Field order is id, username,
// password, bio, and every rendering keeps it.
type User struct {
	ID       int64   `json:"id" msgpack:"id"`
	Username string  `json:"username" msgpack:"username"`
	Password string  `json:"password" msgpack:"password"`
	Bio      *string `json:"bio" msgpack:"bio"`
}

// String renders the user as space separated key=value pairs:
//
//	id=1 username='alice' password='1234' bio=None
//
// A nil user renders as None.
func (u *User) String() string {
	if u == nil {
		return none
	}
	var b strings.Builder
	u.writeFields(&b, " ")
	return b.String()
}

// Repr renders the user as a constructor-like expression:
//
//	User(id=1, username='alice', password='1234', bio=None)
func (u *User) Repr() string {
	if u == nil {
		return none
	}
	var b strings.Builder
	b.WriteString("User(")
	u.writeFields(&b, ", ")
	b.WriteByte(')')
	return b.String()
}

func (u *User) writeFields(b *strings.Builder, sep string) {
	b.WriteString("id=")
	b.WriteString(formatInt(u.ID))
	b.WriteString(sep)
	b.WriteString("username=")
	b.WriteString(Quote(u.Username))
	b.WriteString(sep)
	b.WriteString("password=")
	b.WriteString(Quote(u.Password))
	b.WriteString(sep)
	b.WriteString("bio=")
	b.WriteString(QuoteOptional(u.Bio))
}

// Users is a list of users rendered as [User(...), User(...)].
type Users []User

func (us Users) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range us {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(us[i].Repr())
	}
	b.WriteByte(']')
	return b.String()
}

// StringPtr returns a pointer to s, for optional fields.
func StringPtr(s string) *string {
	return &s
}
