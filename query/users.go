// Package query holds the per-model query factories over the orm package.
package query

import (
	"context"
	"database/sql"

	"github.com/mickamy/ormjoin/internal/naming"
	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/scope"
)

// UsersTable is the table backing model.User.
var UsersTable = orm.ResolveTableName[model.User](naming.TableName("User"))

// UsersColumns lists the users columns in declaration order.
var UsersColumns = []string{"id", "username", "email", "password_hash"}

// Users returns a new Query for the users table.
func Users(db orm.Querier) *orm.Query[model.User] {
	q := orm.NewQuery[model.User](
		db, UsersTable, UsersColumns, "id",
		scanUser, userColumnValuePairs, setUserPK,
	)
	q.RegisterJoin("Posts", orm.JoinConfig{
		TargetTable: PostsTable, TargetColumn: "user_id",
		SourceTable: UsersTable, SourceColumn: "id",
	})
	q.RegisterPreloader("Posts", preloadUserPosts)
	return q
}

func scanUser(rows *sql.Rows) (model.User, error) {
	cols, _ := rows.Columns()
	var v model.User
	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "id":
			dest[i] = &v.ID
		case "username":
			dest[i] = &v.Username
		case "email":
			dest[i] = &v.Email
		case "password_hash":
			dest[i] = &v.PasswordHash
		default:
			dest[i] = new(any)
		}
	}
	err := rows.Scan(dest...)
	return v, err
}

func userColumnValuePairs(v *model.User, includesPK bool) ([]string, []any) {
	if includesPK {
		return []string{"id", "username", "email", "password_hash"},
			[]any{v.ID, v.Username, v.Email, v.PasswordHash}
	}
	return []string{"username", "email", "password_hash"},
		[]any{v.Username, v.Email, v.PasswordHash}
}

func setUserPK(v *model.User, id int64) {
	v.ID = int(id)
}

func preloadUserPosts(ctx context.Context, db orm.Querier, results []model.User) error {
	if len(results) == 0 {
		return nil
	}
	ids := make([]int, len(results))
	for i := range results {
		ids[i] = results[i].ID
	}
	related, err := Posts(db).Scopes(scope.In("user_id", ids), scope.OrderBy("id")).All(ctx)
	if err != nil {
		return err
	}
	byFK := make(map[int][]model.Post)
	for _, r := range related {
		if r.UserID != nil {
			byFK[*r.UserID] = append(byFK[*r.UserID], r)
		}
	}
	for i := range results {
		results[i].Posts = byFK[results[i].ID]
	}
	return nil
}
