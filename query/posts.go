package query

import (
	"context"
	"database/sql"
	"time"

	"github.com/mickamy/ormjoin/internal/naming"
	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/scope"
)

// PostsTable is the table backing model.Post.
var PostsTable = orm.ResolveTableName[model.Post](naming.TableName("Post"))

// PostsColumns lists the posts columns in declaration order.
var PostsColumns = []string{"id", "body", "timestamp", "user_id"}

// Posts returns a new Query for the posts table.
//
// Join("Author") is an inner join to users that also selects the author's
// columns, so every returned Post carries its Author.
func Posts(db orm.Querier) *orm.Query[model.Post] {
	q := orm.NewQuery[model.Post](
		db, PostsTable, PostsColumns, "id",
		scanPost, postColumnValuePairs, setPostPK,
	)
	q.RegisterJoin("Author", orm.JoinConfig{
		TargetTable: UsersTable, TargetColumn: "id",
		SourceTable: PostsTable, SourceColumn: "user_id",
		SelectColumns: UsersColumns,
	})
	q.RegisterPreloader("Author", preloadPostAuthor)
	q.RegisterCreatedAt(setPostTimestamp)
	return q
}

func scanPost(rows *sql.Rows) (model.Post, error) {
	cols, _ := rows.Columns()
	var v model.Post
	// Joined columns are NULL for posts without an author under LeftJoin.
	var authorID sql.NullInt64
	var authorUsername, authorEmail, authorPasswordHash sql.NullString
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "body":
			dest[i] = &v.Body
		case "timestamp":
			dest[i] = &v.Timestamp
		case "user_id":
			dest[i] = &v.UserID
		case "Author__id":
			dest[i] = &authorID
		case "Author__username":
			dest[i] = &authorUsername
		case "Author__email":
			dest[i] = &authorEmail
		case "Author__password_hash":
			dest[i] = &authorPasswordHash
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	if authorID.Valid {
		v.Author = &model.User{
			ID:           int(authorID.Int64),
			Username:     authorUsername.String,
			Email:        authorEmail.String,
			PasswordHash: authorPasswordHash.String,
		}
	}
	return v, err
}

func postColumnValuePairs(v *model.Post, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "body", "timestamp", "user_id"},
			[]any{v.ID, v.Body, v.Timestamp, v.UserID}
	}
	return []string{"body", "timestamp", "user_id"},
		[]any{v.Body, v.Timestamp, v.UserID}
}

func setPostPK(v *model.Post, id int64) {
	v.ID = int(id)
}

func setPostTimestamp(v *model.Post, now time.Time) {
	if v.Timestamp.IsZero() {
		v.Timestamp = now
	}
}

func preloadPostAuthor(ctx context.Context, db orm.Querier, results []model.Post) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, 0, len(results))
	for i := range results {
		if results[i].UserID != nil {
			ids = append(ids, *results[i].UserID)
		}
	}
	related, err := Users(db).Scopes(scope.In("id", ids)).All(ctx)
	if err != nil {
		return err
	}
	byPK := make(map[int]*model.User)
	for i := range related {
		byPK[related[i].ID] = &related[i]
	}
	for i := range results {
		if results[i].UserID != nil {
			results[i].Author = byPK[*results[i].UserID]
		}
	}
	return nil
}
