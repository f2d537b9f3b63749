package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestSeedPopulatesEmptyDatabase(t *testing.T) {
	gdb := setupSeedTestDB(t)

	summary, err := seed(gdb)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if summary.Skipped || summary.Users != 2 || summary.Posts != len(demoPosts) || summary.Comments != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var published int64
	gdb.Model(&db.Post{}).Where("published = ?", true).Count(&published)
	if published != 2 {
		t.Fatalf("expected 2 published posts, got %d", published)
	}

	var author db.User
	if err := gdb.Where("email = ?", demoAuthorEmail).First(&author).Error; err != nil {
		t.Fatalf("load author: %v", err)
	}
	if author.Role != db.RoleAuthor {
		t.Fatalf("expected author role, got %s", author.Role)
	}
}

func TestSeedSkipsWhenUsersExist(t *testing.T) {
	gdb := setupSeedTestDB(t)

	if _, err := seed(gdb); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	summary, err := seed(gdb)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !summary.Skipped {
		t.Fatalf("expected second seed to be skipped")
	}

	var posts int64
	gdb.Model(&db.Post{}).Count(&posts)
	if posts != int64(len(demoPosts)) {
		t.Fatalf("expected %d posts after reseed, got %d", len(demoPosts), posts)
	}
}
