package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mkravets/eduline/internal/database"
)

// Collection names.
const (
	colUsers        = "users"
	colCourses      = "courses"
	colAssignments  = "assignments"
	colSubmissions  = "submissions"
	colQuizzes      = "quizzes"
	colQuizAttempts = "quiz_attempts"
	colSessions     = "sessions"
)

type MongoRepository struct {
	conn   *database.Connector
	logger zerolog.Logger
}

func NewMongoRepository(conn *database.Connector, logger zerolog.Logger) *MongoRepository {
	return &MongoRepository{
		conn:   conn,
		logger: logger,
	}
}

func (r *MongoRepository) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	return r.conn.Collection(ctx, name)
}
