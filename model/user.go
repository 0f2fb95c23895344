package model

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an account that authors posts.
type User struct {
	ID           int    `db:"id,primaryKey"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Posts        []Post `db:"-" rel:"has_many,foreign_key:user_id"`
}

func (u User) String() string {
	return "<User " + u.Username + ">"
}

// SetPassword stores the bcrypt hash of password. A cost of zero uses
// bcrypt.DefaultCost.
func (u *User) SetPassword(password string, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
// Users without a hash never match.
func (u User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
