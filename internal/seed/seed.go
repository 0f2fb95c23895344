// Package seed inserts sample users and posts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/mickamy/ormjoin/model"
	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/repo"
)

// Names is the pool random usernames are drawn from.
var Names = []string{"susan", "rob", "joe", "jill", "tom", "jen", "zoe"}

// EmailDomains is the pool random email domains are drawn from.
var EmailDomains = []string{"@gmail.com", "@outlook.com", "@msn.com"}

// fixedUsers maps each fixed username to its post bodies.
var fixedUsers = []struct {
	username string
	posts    []string
}{
	{"john", []string{"my first post!", "my second post!"}},
	{"susan", []string{"susan's first post", "susan's second post"}},
}

// Report summarizes one seeding run.
type Report struct {
	Users int
	Posts int
	// Orphans counts posts inserted without an author because the random
	// author lookup found no user.
	Orphans int
}

// String returns the success indicator printed after seeding.
func (r Report) String() string { return "Done" }

// Seeder inserts sample data into a store.
type Seeder struct {
	db        *orm.DB
	rand      *rand.Rand
	password  string
	cost      int
	authorIDs int
	logger    *slog.Logger
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithRand sets the random source. The default is seeded from the clock.
func WithRand(r *rand.Rand) Option {
	return func(s *Seeder) { s.rand = r }
}

// WithPassword gives every seeded user the bcrypt hash of password.
// A cost of zero uses bcrypt.DefaultCost.
func WithPassword(password string, cost int) Option {
	return func(s *Seeder) {
		s.password = password
		s.cost = cost
	}
}

// WithAuthorIDs sets the upper bound of the random author identity drawn
// for each post; identities are drawn from [1, n]. Values below 1 are
// ignored.
func WithAuthorIDs(n int) Option {
	return func(s *Seeder) {
		if n >= 1 {
			s.authorIDs = n
		}
	}
}

// WithLogger sets the logger progress is reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Seeder) { s.logger = l }
}

// New returns a Seeder writing to db.
func New(db *orm.DB, opts ...Option) *Seeder {
	s := &Seeder{
		db:        db,
		authorIDs: 10,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // sample data
	}
	return s
}

// Fixed inserts two users with two posts each and commits once. Running
// it against a store that already holds them fails on the uniqueness
// constraints.
func (s *Seeder) Fixed(ctx context.Context) (Report, error) {
	var report Report
	err := s.db.Transaction(ctx, func(tx *orm.Tx) error {
		users := repo.NewUserRepository(tx)
		posts := repo.NewPostRepository(tx)
		for _, fu := range fixedUsers {
			u := &model.User{Username: fu.username, Email: fu.username + "@example.com"}
			if err := s.hashPassword(u); err != nil {
				return err
			}
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("seed: create user %s: %w", u.Username, err)
			}
			report.Users++
			for _, body := range fu.posts {
				p := &model.Post{Body: body}
				p.SetAuthor(u)
				if err := posts.Create(ctx, p); err != nil {
					return fmt.Errorf("seed: create post %q: %w", body, err)
				}
				report.Posts++
			}
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	s.logger.InfoContext(ctx, "seeded fixed data", "users", report.Users, "posts", report.Posts)
	return report, nil
}

// RandomUsers inserts n users named after a random pool entry plus their
// position, with a random email domain, and commits once.
func (s *Seeder) RandomUsers(ctx context.Context, n int) (Report, error) {
	if n <= 0 {
		return Report{}, nil
	}
	users := make([]*model.User, n)
	for i := range users {
		username := Names[s.rand.Intn(len(Names))] + strconv.Itoa(i)
		domain := EmailDomains[s.rand.Intn(len(EmailDomains))]
		users[i] = &model.User{Username: username, Email: username + domain}
		if err := s.hashPassword(users[i]); err != nil {
			return Report{}, err
		}
	}

	err := s.db.Transaction(ctx, func(tx *orm.Tx) error {
		return repo.NewUserRepository(tx).CreateAll(ctx, users)
	})
	if err != nil {
		return Report{}, fmt.Errorf("seed: create users: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded random users", "users", n)
	return Report{Users: n}, nil
}

// RandomPosts inserts n posts, each attributed to the user whose identity
// is drawn at random from [1, authorIDs]. When no such user exists the
// post is stored without an author.
func (s *Seeder) RandomPosts(ctx context.Context, n int) (Report, error) {
	var report Report
	err := s.db.Transaction(ctx, func(tx *orm.Tx) error {
		users := repo.NewUserRepository(tx)
		posts := repo.NewPostRepository(tx)
		for i := range n {
			id := s.rand.Intn(s.authorIDs) + 1
			p := &model.Post{Body: "post " + strconv.Itoa(i)}

			u, err := users.FindByID(ctx, id)
			switch {
			case errors.Is(err, orm.ErrNotFound):
				report.Orphans++
			case err != nil:
				return fmt.Errorf("seed: find author %d: %w", id, err)
			default:
				p.SetAuthor(&u)
			}

			if err := posts.Create(ctx, p); err != nil {
				return fmt.Errorf("seed: create post %q: %w", p.Body, err)
			}
			report.Posts++
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	if report.Orphans > 0 {
		s.logger.WarnContext(ctx, "posts stored without author", "orphans", report.Orphans)
	}
	s.logger.InfoContext(ctx, "seeded random posts", "posts", report.Posts)
	return report, nil
}

// Random runs RandomUsers then RandomPosts.
func (s *Seeder) Random(ctx context.Context, users, posts int) (Report, error) {
	ur, err := s.RandomUsers(ctx, users)
	if err != nil {
		return Report{}, err
	}
	pr, err := s.RandomPosts(ctx, posts)
	if err != nil {
		return Report{Users: ur.Users}, err
	}
	return Report{Users: ur.Users, Posts: pr.Posts, Orphans: pr.Orphans}, nil
}

func (s *Seeder) hashPassword(u *model.User) error {
	if s.password == "" {
		return nil
	}
	if err := u.SetPassword(s.password, s.cost); err != nil {
		return fmt.Errorf("seed: hash password for %s: %w", u.Username, err)
	}
	return nil
}
