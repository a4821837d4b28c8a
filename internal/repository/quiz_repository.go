package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/internal/models"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

type quizRepository struct {
	*MongoRepository
}

func NewQuizRepository(conn *database.Connector, logger zerolog.Logger) QuizRepository {
	return &quizRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	col, err := r.collection(ctx, colQuizzes)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, quiz)
	return err
}

func (r *quizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	col, err := r.collection(ctx, colQuizzes)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{}
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(quiz)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return quiz, err
}

func (r *quizRepository) GetByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	col, err := r.collection(ctx, colQuizzes)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	col, err := r.collection(ctx, colQuizzes)
	if err != nil {
		return 0, err
	}

	return col.CountDocuments(ctx, bson.M{"course_id": courseID})
}
