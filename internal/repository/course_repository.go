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

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Course, error)
	GetByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	AddStudent(ctx context.Context, courseID, studentID string) error
}

type courseRepository struct {
	*MongoRepository
}

func NewCourseRepository(conn *database.Connector, logger zerolog.Logger) CourseRepository {
	return &courseRepository{
		MongoRepository: NewMongoRepository(conn, logger),
	}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	col, err := r.collection(ctx, colCourses)
	if err != nil {
		return err
	}

	_, err = col.InsertOne(ctx, course)
	return err
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	col, err := r.collection(ctx, colCourses)
	if err != nil {
		return nil, err
	}

	course := &models.Course{}
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(course)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return course, err
}

func (r *courseRepository) GetByOwner(ctx context.Context, ownerID string) ([]models.Course, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *courseRepository) GetByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	return r.find(ctx, bson.M{"student_ids": studentID})
}

func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	return r.find(ctx, bson.M{})
}

func (r *courseRepository) AddStudent(ctx context.Context, courseID, studentID string) error {
	col, err := r.collection(ctx, colCourses)
	if err != nil {
		return err
	}

	update := bson.M{
		"$addToSet": bson.M{"student_ids": studentID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := col.UpdateOne(ctx, bson.M{"_id": courseID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *courseRepository) find(ctx context.Context, filter bson.M) ([]models.Course, error) {
	col, err := r.collection(ctx, colCourses)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}

	return courses, nil
}
