package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type userRepository struct {
	*MongoRepository
}

func NewUserRepository(conn *database.Connector, logger zerolog.Logger) UserRepository {
	return &userRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	col, err := r.collection(ctx, colUsers)
	if err != nil {
		return err
	}

	// The unique index on email catches a concurrent register that slipped
	// past the service's lookup.
	_, err = col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	col, err := r.collection(ctx, colUsers)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	col, err := r.collection(ctx, colUsers)
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return user, err
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	col, err := r.collection(ctx, colUsers)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}
