package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/lifestyleblend/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles persistence for posts.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

func (r *PostRepository) Get(ctx context.Context, id primitive.ObjectID) (types.Post, error) {
	var post types.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, post types.Post) (types.Post, error) {
	post.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"summary":   post.Summary,
		"content":   post.Content,
		"cover":     post.Cover,
		"speaker":   post.Speaker,
		"updatedAt": post.UpdatedAt,
	}}
	result, err := r.coll.UpdateByID(ctx, post.ID, update)
	if err != nil {
		return types.Post{}, err
	}
	if result.MatchedCount == 0 {
		return types.Post{}, ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLatest returns the newest posts, most recent first.
func (r *PostRepository) ListLatest(ctx context.Context, limit int) ([]types.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []types.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchByTitle matches titles containing the query, case-insensitively,
// newest first. The query is quoted so it is treated as a literal.
func (r *PostRepository) SearchByTitle(ctx context.Context, query string) ([]types.Post, error) {
	filter := bson.M{"title": bson.M{
		"$regex":   regexp.QuoteMeta(query),
		"$options": "i",
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []types.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
