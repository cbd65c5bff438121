package support

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *SupportDBService) CreateNotification(notification Notificacao) (*Notificacao, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	notification.CreatedAt = time.Now()
	res, err := dbService.collectionNotifications().InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}
	notification.ID = res.InsertedID.(primitive.ObjectID)
	return &notification, nil
}

func (dbService *SupportDBService) GetNotificationsForLojista(lojistaID string) ([]Notificacao, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	cursor, err := dbService.collectionNotifications().Find(
		ctx,
		bson.M{"lojistaID": lojistaID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []Notificacao
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (dbService *SupportDBService) MarkNotificationRead(id string, lojistaID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = dbService.collectionNotifications().UpdateOne(
		ctx,
		bson.M{"_id": objID, "lojistaID": lojistaID},
		bson.M{"$set": bson.M{"lida": true}},
	)
	return err
}
