package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskpilot/models"
)

var _ Store = (*Mongo)(nil)

// Mongo implements Store on top of a MongoDB database.
type Mongo struct {
	users         *mongo.Collection
	projects      *mongo.Collection
	tasks         *mongo.Collection
	comments      *mongo.Collection
	notifications *mongo.Collection
}

// NewMongo wires the collections and ensures the unique email index.
// The index is defense in depth only; handlers still check for
// duplicates before inserting.
func NewMongo(db *mongo.Database) (*Mongo, error) {
	m := &Mongo{
		users:         db.Collection("users"),
		projects:      db.Collection("projects"),
		tasks:         db.Collection("tasks"),
		comments:      db.Collection("comments"),
		notifications: db.Collection("notifications"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	_, err := m.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"user_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return m.findUsers(ctx, bson.M{"user_id": bson.M{"$in": ids}})
}

func (m *Mongo) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.findUsers(ctx, bson.M{})
}

func (m *Mongo) findUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := m.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *Mongo) CountUsers(ctx context.Context) (int64, error) {
	return m.users.CountDocuments(ctx, bson.M{})
}

func (m *Mongo) CreateProject(ctx context.Context, project *models.Project) error {
	_, err := m.projects.InsertOne(ctx, project)
	return err
}

func (m *Mongo) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := m.projects.FindOne(ctx, bson.M{"project_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (m *Mongo) UpdateProject(ctx context.Context, project *models.Project) error {
	result, err := m.projects.ReplaceOne(ctx, bson.M{"project_id": project.ID}, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteProject(ctx context.Context, id string) error {
	result, err := m.projects.DeleteOne(ctx, bson.M{"project_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ListProjects(ctx context.Context) ([]models.Project, error) {
	return m.findProjects(ctx, bson.M{})
}

func (m *Mongo) ProjectsByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return m.findProjects(ctx, bson.M{"team_members": userID})
}

func (m *Mongo) findProjects(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := m.projects.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (m *Mongo) CountProjects(ctx context.Context) (int64, error) {
	return m.projects.CountDocuments(ctx, bson.M{})
}
