package lojista

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
	COLLECTION_NAME_LOJISTAS = "lojistas"
)

type LojistaDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewLojistaDBService(configs db.DBConfig) (*LojistaDBService, error) {
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

	ljDBSc := &LojistaDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		ljDBSc.ensureIndexes()
	}
	return ljDBSc, nil
}

func (dbService *LojistaDBService) getDBName() string {
	return dbService.DBNamePrefix + "lojistas"
}

func (dbService *LojistaDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *LojistaDBService) collectionLojistas() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_LOJISTAS)
}

func (dbService *LojistaDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for lojista DB")

	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionLojistas().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "tokenVerificacao", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
			{
				Keys:    bson.D{{Key: "tokenRedefinicao", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
			{
				Keys:    bson.D{{Key: "securityToken", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
	)
	if err != nil {
		slog.Error("Error creating indexes for lojistas", slog.String("error", err.Error()))
	}
}
