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

type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByQuizAndStudent(ctx context.Context, quizID, studentID string) (*models.QuizAttempt, error)
	GetByQuiz(ctx context.Context, quizID string) ([]models.QuizAttempt, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.QuizAttempt, error)
}

type quizAttemptRepository struct {
	*MongoRepository
}

func NewQuizAttemptRepository(conn *database.Connector, logger zerolog.Logger) QuizAttemptRepository {
	return &quizAttemptRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *quizAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	col, err := r.collection(ctx, colQuizAttempts)
	if err != nil {
		return err
	}

	// The compound unique index on quiz_id+student_id makes the one-attempt
	// rule hold even for two concurrent submits.
	_, err = col.InsertOne(ctx, attempt)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadyAttempted
	}
	return err
}

func (r *quizAttemptRepository) GetByQuizAndStudent(ctx context.Context, quizID, studentID string) (*models.QuizAttempt, error) {
	col, err := r.collection(ctx, colQuizAttempts)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"quiz_id":    quizID,
		"student_id": studentID,
	}

	attempt := &models.QuizAttempt{}
	err = col.FindOne(ctx, filter).Decode(attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return attempt, err
}

func (r *quizAttemptRepository) GetByQuiz(ctx context.Context, quizID string) ([]models.QuizAttempt, error) {
	return r.find(ctx, bson.M{"quiz_id": quizID})
}

func (r *quizAttemptRepository) GetByStudent(ctx context.Context, studentID string) ([]models.QuizAttempt, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *quizAttemptRepository) find(ctx context.Context, filter bson.M) ([]models.QuizAttempt, error) {
	col, err := r.collection(ctx, colQuizAttempts)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []models.QuizAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}
