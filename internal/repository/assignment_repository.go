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

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	GetByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

type assignmentRepository struct {
	*MongoRepository
}

func NewAssignmentRepository(conn *database.Connector, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	col, err := r.collection(ctx, colAssignments)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, assignment)
	return err
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	col, err := r.collection(ctx, colAssignments)
	if err != nil {
		return nil, err
	}

	assignment := &models.Assignment{}
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(assignment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) GetByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	col, err := r.collection(ctx, colAssignments)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "due_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	col, err := r.collection(ctx, colAssignments)
	if err != nil {
		return 0, err
	}

	return col.CountDocuments(ctx, bson.M{"course_id": courseID})
}
