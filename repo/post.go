package repo

import (
	"context"

	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/query"
	"github.com/mickamy/ormjoin/scope"
)

// PostRepository reads and writes posts.
type PostRepository struct {
	db orm.Querier
}

func NewPostRepository(db orm.Querier) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	return query.Posts(r.db).Create(ctx, p)
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	return query.Posts(r.db).Count(ctx)
}

// CountWithAuthor counts posts whose author reference is set.
func (r *PostRepository) CountWithAuthor(ctx context.Context) (int64, error) {
	return query.Posts(r.db).Where("user_id IS NOT NULL").Count(ctx)
}

// FindAll returns every post with its author preloaded, in id order.
// Posts without an author have a nil Author.
func (r *PostRepository) FindAll(ctx context.Context) ([]model.Post, error) {
	return query.Posts(r.db).OrderBy("id").Preload("Author").All(ctx)
}

// JoinAuthors returns the inner join of posts to their authors, narrowed
// by scopes. The query is returned unexecuted so callers can render it.
func (r *PostRepository) JoinAuthors(scopes ...scope.Scope) *orm.Query[model.Post] {
	return query.Posts(r.db).Join("Author").Scopes(scopes...)
}
