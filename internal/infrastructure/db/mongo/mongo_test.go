package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/quillpad/blog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Document mapping
// ---------------------------------------------------------------------------

func TestUserMapping(t *testing.T) {
	created := time.Date(2026, 2, 19, 10, 0, 0, 123_000_000, time.UTC)
	u := &domain.User{ID: 4, Username: "alice", Email: "alice@example.com", PasswordHash: "h", CreatedAt: created}

	doc := toMongoUser(u)
	if doc.ID != 4 || doc.CreatedAt != created.UnixMilli() {
		t.Fatalf("unexpected document: %+v", doc)
	}

	back := doc.toDomain()
	if back.Username != "alice" || back.PasswordHash != "h" || !back.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", back)
	}
}

func TestPostMapping(t *testing.T) {
	created := time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)
	p := &domain.Post{ID: 9, Title: "T", Content: "C", OwnerID: 3, Username: "ignored", CreatedAt: created, UpdatedAt: created.Add(time.Second)}

	doc := toMongoPost(p)
	if doc.UserID != 3 || doc.Username != "" {
		t.Fatalf("username must not be stored on the post: %+v", doc)
	}

	doc.Username = "carol"
	back := doc.toDomain()
	if back.OwnerID != 3 || back.Username != "carol" || !back.UpdatedAt.Equal(created.Add(time.Second)) {
		t.Fatalf("unexpected post: %+v", back)
	}
}

func TestFromMillis_Zero(t *testing.T) {
	if !fromMillis(0).IsZero() {
		t.Fatal("expected zero time for 0")
	}
}

func TestWithOwner_Pipeline(t *testing.T) {
	all := withOwner(nil)
	if len(all) != 4 {
		t.Fatalf("expected 4 stages without a match, got %d", len(all))
	}
	if all[0][0].Key != "$lookup" {
		t.Fatalf("expected $lookup first, got %s", all[0][0].Key)
	}

	one := withOwner(bson.D{{Key: "_id", Value: int64(1)}})
	if len(one) != 5 || one[0][0].Key != "$match" {
		t.Fatalf("expected leading $match stage, got %v", one)
	}
}

func TestStorageErr(t *testing.T) {
	cause := errors.New("connection reset")
	err := storageErr("insert user", cause)
	if !errors.Is(err, domain.ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinels in chain, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Integration (requires MONGO_TEST_URI)
// ---------------------------------------------------------------------------

func TestRepositories_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: fmt.Sprintf("blog_test_%d", time.Now().UnixNano())})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	now := time.Now().UTC().Truncate(time.Millisecond)

	alice, err := users.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", CreatedAt: now})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if alice.ID != 1 {
		t.Fatalf("expected first id 1, got %d", alice.ID)
	}
	if _, err := users.Create(ctx, &domain.User{Username: "alice", Email: "x@example.com", PasswordHash: "h", CreatedAt: now}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := users.Create(ctx, &domain.User{Username: "other", Email: "alice@example.com", PasswordHash: "h", CreatedAt: now}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := posts.Create(ctx, &domain.Post{Title: "T", Content: "C", OwnerID: 999, CreatedAt: now, UpdatedAt: now}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	first, err := posts.Create(ctx, &domain.Post{Title: "first", Content: "C", OwnerID: alice.ID, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if first.Username != "alice" {
		t.Fatalf("expected joined username, got %q", first.Username)
	}
	second, _ := posts.Create(ctx, &domain.Post{Title: "second", Content: "C", OwnerID: alice.ID, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)})

	list, err := posts.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("unexpected list %v (err %v)", list, err)
	}

	updated, err := posts.Update(ctx, &domain.Post{ID: first.ID, Title: "edited", Content: "C2", UpdatedAt: now.Add(2 * time.Second)})
	if err != nil || updated.Title != "edited" || !updated.CreatedAt.Equal(now) {
		t.Fatalf("unexpected update %+v (err %v)", updated, err)
	}

	if err := posts.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := posts.FindByID(ctx, first.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if err := posts.Delete(ctx, first.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}
