package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskpilot/models"
)

func (m *Mongo) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]interface{}, len(notifications))
	for i := range notifications {
		docs[i] = notifications[i]
	}
	_, err := m.notifications.InsertMany(ctx, docs)
	return err
}

func (m *Mongo) NotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	err := m.notifications.FindOne(ctx, bson.M{"notification_id": id}).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (m *Mongo) NotificationsByUser(ctx context.Context, userID string, limit int64, unreadOnly bool) ([]models.Notification, error) {
	query := bson.M{"user_id": userID}
	if unreadOnly {
		query["is_read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := m.notifications.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (m *Mongo) MarkNotificationRead(ctx context.Context, id string) error {
	result, err := m.notifications.UpdateOne(ctx,
		bson.M{"notification_id": id},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := m.notifications.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	return err
}

func (m *Mongo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	return m.notifications.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (m *Mongo) DeleteNotificationsByLinkPrefix(ctx context.Context, prefix string) error {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}
	_, err := m.notifications.DeleteMany(ctx, bson.M{"link": pattern})
	return err
}

func (m *Mongo) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := m.notifications.DeleteMany(ctx, bson.M{
		"is_read":    true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
