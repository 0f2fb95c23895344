package model

import "time"

// Post is a short message. UserID is nil when the post has no author.
type Post struct {
	ID        int       `db:"id,primaryKey"`
	Body      string    `db:"body"`
	Timestamp time.Time `db:"timestamp,createdAt"`
	UserID    *int      `db:"user_id"`
	Author    *User     `db:"-" rel:"belongs_to,foreign_key:user_id"`
}

func (p Post) String() string {
	return "<Post " + p.Body + ">"
}

// SetAuthor links p to u. A nil u clears the link.
func (p *Post) SetAuthor(u *User) {
	p.Author = u
	if u == nil {
		p.UserID = nil
		return
	}
	id := u.ID
	p.UserID = &id
}
