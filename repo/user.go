// Package repo wraps the query factories with a repository pattern.
package repo

import (
	"context"

	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/query"
	"github.com/mickamy/ormjoin/scope"
)

// UserRepository reads and writes users.
type UserRepository struct {
	db orm.Querier
}

func NewUserRepository(db orm.Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return query.Users(r.db).Create(ctx, u)
}

func (r *UserRepository) CreateAll(ctx context.Context, users []*model.User) error {
	return query.Users(r.db).CreateAll(ctx, users)
}

// FindByID returns the user with the given identity, or orm.ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id int) (model.User, error) {
	return query.Users(r.db).Where("id = ?", id).First(ctx)
}

// FindByIDWithPosts is FindByID with the user's posts loaded, oldest first.
func (r *UserRepository) FindByIDWithPosts(ctx context.Context, id int) (model.User, error) {
	return query.Users(r.db).Where("id = ?", id).Preload("Posts").First(ctx)
}

// FindByUsername returns the user with exactly this username, or orm.ErrNotFound.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return query.Users(r.db).Scopes(scope.Eq("username", username)).First(ctx)
}

func (r *UserRepository) FindAll(ctx context.Context, scopes ...scope.Scope) ([]model.User, error) {
	return query.Users(r.db).Scopes(scopes...).OrderBy("id").All(ctx)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return query.Users(r.db).Count(ctx)
}
