package adminuser

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
	COLLECTION_NAME_ADMIN_USERS = "adminUsers"
)

type AdminUserDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewAdminUserDBService(configs db.DBConfig) (*AdminUserDBService, error) {
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

	auDBSc := &AdminUserDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		auDBSc.ensureIndexes()
	}
	return auDBSc, nil
}

func (dbService *AdminUserDBService) getDBName() string {
	return dbService.DBNamePrefix + "admin-users"
}

func (dbService *AdminUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AdminUserDBService) collectionAdminUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_ADMIN_USERS)
}

func (dbService *AdminUserDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for admin user DB")

	if err := dbService.createIndexesForAdminUsers(); err != nil {
		slog.Error("Error creating indexes for admin users", slog.String("error", err.Error()))
	}
}

func (dbService *AdminUserDBService) createIndexesForAdminUsers() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionAdminUsers().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				// at most one row may carry the bootstrap marker
				Keys:    bson.D{{Key: "bootstrapMarker", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{
				Keys: bson.D{{Key: "status", Value: 1}},
			},
		},
	)
	return err
}
