package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskpilot/models"
)

func taskQuery(filter TaskFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.AssignedTo != "" {
		query["assigned_to"] = filter.AssignedTo
	}
	if filter.Scope != nil {
		query["$or"] = bson.A{
			bson.M{"assigned_to": filter.Scope.UserID},
			bson.M{"project_id": bson.M{"$in": filter.Scope.ProjectIDs}},
		}
	}
	return query
}

func (m *Mongo) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := m.tasks.InsertOne(ctx, task)
	return err
}

func (m *Mongo) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := m.tasks.FindOne(ctx, bson.M{"task_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (m *Mongo) UpdateTask(ctx context.Context, task *models.Task) error {
	result, err := m.tasks.ReplaceOne(ctx, bson.M{"task_id": task.ID}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteTask(ctx context.Context, id string) error {
	result, err := m.tasks.DeleteOne(ctx, bson.M{"task_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	cursor, err := m.tasks.Find(ctx, taskQuery(filter))
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (m *Mongo) CountTasks(ctx context.Context, filter TaskFilter) (int64, error) {
	return m.tasks.CountDocuments(ctx, taskQuery(filter))
}

func (m *Mongo) TaskStatusCounts(ctx context.Context, filter TaskFilter) (models.TaskStatusCounts, error) {
	var counts models.TaskStatusCounts

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: taskQuery(filter)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := m.tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return counts, err
	}

	for _, row := range rows {
		switch row.Status {
		case models.StatusTodo:
			counts.Todo = row.Count
		case models.StatusInProgress:
			counts.InProgress = row.Count
		case models.StatusDone:
			counts.Done = row.Count
		}
	}
	return counts, nil
}

func (m *Mongo) CountTasksDueBetween(ctx context.Context, assignedTo string, start, end time.Time) (int64, error) {
	query := bson.M{
		"due_date": bson.M{"$gte": start, "$lte": end},
		"status":   bson.M{"$ne": models.StatusDone},
	}
	if assignedTo != "" {
		query["assigned_to"] = assignedTo
	}
	return m.tasks.CountDocuments(ctx, query)
}

func (m *Mongo) DeleteTasksByProject(ctx context.Context, projectID string) error {
	_, err := m.tasks.DeleteMany(ctx, bson.M{"project_id": projectID})
	return err
}

func (m *Mongo) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := m.comments.InsertOne(ctx, comment)
	return err
}

func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := m.comments.FindOne(ctx, bson.M{"comment_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (m *Mongo) CommentsByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.comments.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (m *Mongo) DeleteComment(ctx context.Context, id string) error {
	result, err := m.comments.DeleteOne(ctx, bson.M{"comment_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteCommentsByTask(ctx context.Context, taskID string) error {
	_, err := m.comments.DeleteMany(ctx, bson.M{"task_id": taskID})
	return err
}

func (m *Mongo) DeleteCommentsByTasks(ctx context.Context, taskIDs []string) error {
	if len(taskIDs) == 0 {
		return nil
	}
	_, err := m.comments.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": taskIDs}})
	return err
}
