package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	*MongoRepository
}

func NewSessionRepository(conn *database.Connector, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	col, err := r.collection(ctx, colSessions)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, session)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	col, err := r.collection(ctx, colSessions)
	if err != nil {
		return nil, err
	}

	session := &models.Session{}
	err = col.FindOne(ctx, bson.M{"_id": token}).Decode(session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return session, err
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	col, err := r.collection(ctx, colSessions)
	if err != nil {
		return err
	}

	_, err = col.DeleteOne(ctx, bson.M{"_id": token})
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	col, err := r.collection(ctx, colSessions)
	if err != nil {
		return 0, err
	}

	result, err := col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
