package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkravets/eduline/internal/database"
	"github.com/mkravets/eduline/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error)
	GetByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	UpdateContent(ctx context.Context, id, content string) error
	SetGrade(ctx context.Context, id string, grade *models.Grade) error
}

type submissionRepository struct {
	*MongoRepository
}

func NewSubmissionRepository(conn *database.Connector, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return err
	}

	// The compound unique index on student_id+assignment_id catches a
	// concurrent submit that slipped past the service's lookup.
	_, err = col.InsertOne(ctx, submission)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadySubmitted
	}
	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{}
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"student_id":    studentID,
		"assignment_id": assignmentID,
	}

	submission := &models.Submission{}
	err = col.FindOne(ctx, filter).Decode(submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	return r.find(ctx, bson.M{"assignment_id": assignmentID})
}

func (r *submissionRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	return r.find(ctx, bson.M{"student_id": studentID})
}

func (r *submissionRepository) UpdateContent(ctx context.Context, id, content string) error {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"content":      content,
			"submitted_at": now,
			"updated_at":   now,
		},
	}

	result, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *submissionRepository) SetGrade(ctx context.Context, id string, grade *models.Grade) error {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"grade":      grade,
			"status":     models.SubmissionStatusGraded,
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *submissionRepository) find(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	col, err := r.collection(ctx, colSubmissions)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []models.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}

	return submissions, nil
}
