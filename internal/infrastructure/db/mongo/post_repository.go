package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillpad/blog-api/internal/core/domain"
)

type PostRepository struct {
	db    *mongo.Database
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		db:    db,
		coll:  db.Collection(collectionPosts),
		users: db.Collection(collectionUsers),
	}
}

type mongoPost struct {
	ID        int64  `bson:"_id"`
	Title     string `bson:"title"`
	Content   string `bson:"content"`
	UserID    int64  `bson:"user_id"`
	Username  string `bson:"username,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func toMongoPost(p *domain.Post) mongoPost {
	return mongoPost{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.OwnerID,
		CreatedAt: toMillis(p.CreatedAt),
		UpdatedAt: toMillis(p.UpdatedAt),
	}
}

func (m mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		OwnerID:   m.UserID,
		Username:  m.Username,
		CreatedAt: fromMillis(m.CreatedAt),
		UpdatedAt: fromMillis(m.UpdatedAt),
	}
}

// withOwner builds the aggregation that joins the owner's username onto each
// post. Posts whose owner no longer exists are dropped, like an inner join.
func withOwner(match bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		bson.D{{Key: "$unwind", Value: "$owner"}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "username", Value: "$owner.username"}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "owner", Value: 0}}}},
	)
}

// Create checks the owner exists, since MongoDB has no foreign keys.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"_id": p.OwnerID})
	if err != nil {
		return nil, storageErr("check post owner", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}

	id, err := nextID(ctx, r.db, collectionPosts)
	if err != nil {
		return nil, err
	}

	doc := toMongoPost(p)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, storageErr("insert post", err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	posts, err := r.aggregate(ctx, withOwner(bson.D{{Key: "_id", Value: id}}))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts[0], nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	pipeline := append(withOwner(nil),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	)
	return r.aggregate(ctx, pipeline)
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, p.ID, bson.M{"$set": bson.M{
		"title":      p.Title,
		"content":    p.Content,
		"updated_at": toMillis(p.UpdatedAt),
	}})
	if err != nil {
		return nil, storageErr("update post", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr("delete post", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storageErr("aggregate posts", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("decode posts", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}
