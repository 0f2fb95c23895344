// Package report runs the posts-to-authors join and prints its results.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/query"
	"github.com/mickamy/ormjoin/repo"
	"github.com/mickamy/ormjoin/scope"
)

// Row is one result of the join: a post paired with its author.
type Row struct {
	User model.User
	Post model.Post
}

func (r Row) String() string {
	return fmt.Sprintf("(%s, %s)", r.User, r.Post)
}

// UsernameIs narrows the join to posts whose author has exactly this
// username. Comparison follows the store's collation.
func UsernameIs(username string) scope.Scope {
	return scope.Eq(query.UsersTable+".username", username)
}

// Query returns the unexecuted inner join of posts to their authors.
func Query(db orm.Querier, scopes ...scope.Scope) *orm.Query[model.Post] {
	return repo.NewPostRepository(db).JoinAuthors(scopes...)
}

// Rows executes the join and returns one Row per matching post. Posts
// without an author are excluded by the inner join.
func Rows(ctx context.Context, db orm.Querier, scopes ...scope.Scope) ([]Row, error) {
	posts, err := Query(db, scopes...).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	rows := make([]Row, 0, len(posts))
	for _, p := range posts {
		if p.Author == nil {
			continue
		}
		u := *p.Author
		p.Author = nil
		rows = append(rows, Row{User: u, Post: p})
	}
	return rows, nil
}

// ViewPosts writes the compiled join and every joined row to w.
func ViewPosts(ctx context.Context, db orm.Querier, w io.Writer) error {
	return view(ctx, db, w)
}

// ViewPostsFilter is ViewPosts restricted to posts written by username.
func ViewPostsFilter(ctx context.Context, db orm.Querier, w io.Writer, username string) error {
	return view(ctx, db, w, UsernameIs(username))
}

func view(ctx context.Context, db orm.Querier, w io.Writer, scopes ...scope.Scope) error {
	stmt, _, err := Query(db, scopes...).SQL()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	rows, err := Rows(ctx, db, scopes...)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "SQL Query: \n %s\n\n\nResults:\n", stmt); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r); err != nil {
			return fmt.Errorf("report: write: %w", err)
		}
	}
	return nil
}
