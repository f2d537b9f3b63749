package main

import (
	"fmt"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

const (
	demoAuthorEmail = "author@inkwell.local"
	demoReaderEmail = "reader@inkwell.local"
	demoPassword    = "inkwell123"
)

type seedSummary struct {
	Skipped  bool
	Users    int
	Posts    int
	Comments int
}

type seedPost struct {
	title     string
	content   string
	tags      []string
	published bool
}

var demoPosts = []seedPost{
	{
		title:     "Hello, Inkwell",
		content:   "# Hello\n\nThis is the first published post. Comments are **welcome**.",
		tags:      []string{"announcements", "meta"},
		published: true,
	},
	{
		title:     "Notes on threaded comments",
		content:   "Replies can nest without limit; clients may ask for a shallower view with `?depth=N`.",
		tags:      []string{"engineering"},
		published: true,
	},
	{
		title:   "Unfinished draft",
		content: "Only the author can see this until it is published.",
		tags:    []string{"drafts"},
	},
}

// seed 在空库中写入演示数据，已有用户时跳过。
func seed(gdb *gorm.DB) (seedSummary, error) {
	var count int64
	if err := gdb.Model(&db.User{}).Count(&count).Error; err != nil {
		return seedSummary{}, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return seedSummary{Skipped: true}, nil
	}

	users := service.NewAuthService(gdb, auth.NewTokenIssuer("seed", 0))
	author, err := users.Signup(service.SignupInput{Name: "Demo Author", Email: demoAuthorEmail, Password: demoPassword, Role: "AUTHOR"})
	if err != nil {
		return seedSummary{}, fmt.Errorf("create author: %w", err)
	}
	reader, err := users.Signup(service.SignupInput{Name: "Demo Reader", Email: demoReaderEmail, Password: demoPassword})
	if err != nil {
		return seedSummary{}, fmt.Errorf("create reader: %w", err)
	}

	summary := seedSummary{Users: 2}
	posts := service.NewPostService(gdb)
	comments := service.NewCommentService(gdb)

	var first *db.Post
	for _, demo := range demoPosts {
		post, err := posts.Create(service.PostInput{
			Title:    demo.title,
			Content:  demo.content,
			Tags:     demo.tags,
			AuthorID: author.User.ID,
		})
		if err != nil {
			return summary, fmt.Errorf("create post %q: %w", demo.title, err)
		}
		if demo.published {
			if post, err = posts.TogglePublish(post); err != nil {
				return summary, fmt.Errorf("publish post %q: %w", demo.title, err)
			}
		}
		if first == nil {
			first = post
		}
		summary.Posts++
	}

	root, err := comments.Create(service.CommentInput{PostID: first.ID, AuthorID: reader.User.ID, Content: "Great start!"})
	if err != nil {
		return summary, fmt.Errorf("create comment: %w", err)
	}
	reply, err := comments.Create(service.CommentInput{PostID: first.ID, AuthorID: author.User.ID, Content: "Thanks for reading.", ParentID: &root.ID})
	if err != nil {
		return summary, fmt.Errorf("create reply: %w", err)
	}
	if _, err := comments.Create(service.CommentInput{PostID: first.ID, AuthorID: reader.User.ID, Content: "Looking forward to more.", ParentID: &reply.ID}); err != nil {
		return summary, fmt.Errorf("create nested reply: %w", err)
	}
	summary.Comments = 3

	return summary, nil
}
