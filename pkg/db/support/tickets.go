package support

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *SupportDBService) CreateTicket(ticket Ticket) (*Ticket, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	ticket.CreatedAt = time.Now()
	res, err := dbService.collectionTickets().InsertOne(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ticket.ID = res.InsertedID.(primitive.ObjectID)
	return &ticket, nil
}

// UpsertOpenTicket creates an open ticket keyed by lojista and type. A retry
// after a partial failure matches the existing open ticket instead of
// creating a duplicate.
func (dbService *SupportDBService) UpsertOpenTicket(lojistaID string, tipo string, descricao string) (*Ticket, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var ticket Ticket
	err := dbService.collectionTickets().FindOneAndUpdate(
		ctx,
		bson.M{
			"lojistaID": lojistaID,
			"tipo":      tipo,
			"status":    TICKET_STATUS_ABERTO,
		},
		bson.M{
			"$set": bson.M{"descricao": descricao},
			"$setOnInsert": bson.M{
				"lojistaID": lojistaID,
				"tipo":      tipo,
				"status":    TICKET_STATUS_ABERTO,
				"createdAt": time.Now(),
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (dbService *SupportDBService) GetTicketByID(id string) (*Ticket, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var ticket Ticket
	err = dbService.collectionTickets().FindOne(ctx, bson.M{"_id": objID}).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (dbService *SupportDBService) GetTickets(status string) ([]Ticket, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := dbService.collectionTickets().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ResolveTicket flips an open ticket to resolved and returns it. Unknown ids
// or already-resolved tickets return mongo.ErrNoDocuments.
func (dbService *SupportDBService) ResolveTicket(id string) (*Ticket, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	err = dbService.collectionTickets().FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID, "status": TICKET_STATUS_ABERTO},
		bson.M{"$set": bson.M{
			"status":     TICKET_STATUS_RESOLVIDO,
			"resolvedAt": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
