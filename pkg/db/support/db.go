package support

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitrine-commerce/vitrine-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_TICKETS       = "tickets"
	COLLECTION_NAME_NOTIFICATIONS = "notificacoes"
)

type SupportDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewSupportDBService(configs db.DBConfig) (*SupportDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()
	if err != nil {
		return nil, err
	}

	spDBSc := &SupportDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		spDBSc.ensureIndexes()
	}
	return spDBSc, nil
}

func (dbService *SupportDBService) getDBName() string {
	return dbService.DBNamePrefix + "support"
}

func (dbService *SupportDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *SupportDBService) collectionTickets() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_TICKETS)
}

func (dbService *SupportDBService) collectionNotifications() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_NOTIFICATIONS)
}

func (dbService *SupportDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for support DB")

	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionTickets().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "lojistaID", Value: 1},
					{Key: "tipo", Value: 1},
					{Key: "status", Value: 1},
				},
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for tickets", slog.String("error", err.Error()))
	}

	_, err = dbService.collectionNotifications().Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "lojistaID", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for notifications", slog.String("error", err.Error()))
	}
}
