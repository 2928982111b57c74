package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"kidassess/internal/model"
)

// ImageRepo hosts question imagery. Store returns a stable id; the REST
// layer serves the bytes back under /v1/images/{id}, which is the URL-like
// reference persisted inside questions.
type ImageRepo interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, id string) (*model.HostedImage, error)
	Delete(ctx context.Context, id string) error
}

type imageDoc struct {
	ID          string           `bson:"_id"`
	Data        primitive.Binary `bson:"data"`
	ContentType string           `bson:"contentType"`
	CreatedAt   time.Time        `bson:"createdAt"`
}

type imageRepo struct {
	collection *mongo.Collection
}

func NewImageRepo(db *mongo.Database) ImageRepo {
	return &imageRepo{
		collection: db.Collection("images"),
	}
}

func (r *imageRepo) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	doc := imageDoc{
		ID:          uuid.New().String(),
		Data:        primitive.Binary{Data: data},
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *imageRepo) Get(ctx context.Context, id string) (*model.HostedImage, error) {
	var doc imageDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &model.HostedImage{
		ID:          doc.ID,
		Data:        doc.Data.Data,
		ContentType: doc.ContentType,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (r *imageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
