package main

import (
	"context"
	"log/slog"

	"blog/internal/domain/entity"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/errors"
)

type demoPost struct {
	title     string
	slug      string
	content   string
	tags      []string
	published bool
}

var demoPosts = []demoPost{
	{
		title:     "Hello, world",
		slug:      "hello-world",
		content:   "The first post on this blog. Everything starts somewhere.",
		tags:      []string{"intro"},
		published: true,
	},
	{
		title:     "Writing with tags",
		slug:      "writing-with-tags",
		content:   "Tags group posts by topic and power the tag filter on the listing.",
		tags:      []string{"howto", "tags"},
		published: true,
	},
	{
		title:     "Search tips",
		slug:      "search-tips",
		content:   "Use the q parameter to run a ranked full-text search over titles and content.",
		tags:      []string{"howto", "search"},
		published: true,
	},
	{
		title:     "Paging through posts",
		slug:      "paging-through-posts",
		content:   "Listings return at most fifty posts per page no matter what limit you ask for.",
		tags:      []string{"howto"},
		published: true,
	},
	{
		title:     "Draft ideas",
		slug:      "draft-ideas",
		content:   "An unpublished draft that only shows up when filtering by published=false.",
		tags:      []string{"drafts"},
		published: false,
	},
}

type seedResult struct {
	UserCreated  bool
	PostsCreated int
	PostsSkipped int
}

type seeder struct {
	tx     repository.TransactionManager
	hasher service.PasswordHasher
	logger *slog.Logger
}

// Seed creates the demo author and posts. Rows that already exist are left
// untouched so the command can run repeatedly.
func (s *seeder) Seed(ctx context.Context, password string) (*seedResult, error) {
	result := &seedResult{}

	err := s.tx.Execute(ctx, func(repos repository.RepositoryFactory) error {
		author, created, err := s.ensureAuthor(ctx, repos.Users(), password)
		if err != nil {
			return err
		}
		result.UserCreated = created

		for _, demo := range demoPosts {
			_, err := repos.Posts().FindBySlug(ctx, demo.slug)
			if err == nil {
				result.PostsSkipped++

				continue
			}
			if !errors.Is(err, repository.ErrPostNotFound) {
				return errors.Wrapf(err, "look up post %s", demo.slug)
			}

			post := &entity.Post{
				Title:     demo.title,
				Slug:      demo.slug,
				Content:   demo.content,
				Tags:      entity.NormalizeTags(demo.tags),
				Published: demo.published,
				AuthorID:  author.ID,
			}
			if err := repos.Posts().Create(ctx, post); err != nil {
				return errors.Wrapf(err, "create post %s", demo.slug)
			}
			s.logger.Debug("Seeded post", slog.String("slug", demo.slug))
			result.PostsCreated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *seeder) ensureAuthor(ctx context.Context, users repository.UserRepository, password string) (*entity.User, bool, error) {
	existing, err := users.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, errors.Wrap(err, "look up demo author")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	credential := &entity.UserCredential{
		User:         entity.User{Name: demoName, Email: entity.NormalizeEmail(demoEmail)},
		PasswordHash: hash,
	}
	if err := users.Create(ctx, credential); err != nil {
		return nil, false, errors.Wrap(err, "create demo author")
	}

	return credential.Safe(), true, nil
}
