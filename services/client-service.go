package services

import (
	"context"
	"time"

	"agency-crm/backend/logging"
	"agency-crm/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCounterKey = "clientId"

type ClientService struct {
	ClientsCollection *mongo.Collection
	Sequence          *SequenceService
}

func NewClientService(clientsCollection *mongo.Collection, sequence *SequenceService) *ClientService {
	return &ClientService{ClientsCollection: clientsCollection, Sequence: sequence}
}

type CreateClientInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (s *ClientService) CreateClient(ctx context.Context, in CreateClientInput) (*models.Client, error) {
	if in.Name == "" {
		return nil, validationError("client name is required")
	}
	if in.Email == "" {
		return nil, validationError("client email is required")
	}

	serial, err := s.Sequence.AllocateSerial(ctx, clientCounterKey)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		ID:        primitive.NewObjectID(),
		SerialID:  serial,
		Name:      in.Name,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.ClientsCollection.InsertOne(ctx, client); err != nil {
		logging.Logger.Errorf("inserting client %q: %v", in.Name, err)
		return nil, validationError("client could not be created")
	}
	return client, nil
}

func (s *ClientService) GetClientByID(ctx context.Context, clientID primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := s.ClientsCollection.FindOne(ctx, bson.M{"_id": clientID, "is_active": true}).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("client %s does not exist or is inactive", clientID.Hex())
	}
	if err != nil {
		logging.Logger.Errorf("fetching client %s: %v", clientID.Hex(), err)
		return nil, notFound("client %s could not be loaded", clientID.Hex())
	}
	return &client, nil
}

func (s *ClientService) ListClients(ctx context.Context, page, limit int64) ([]models.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"serial_id": 1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.ClientsCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		logging.Logger.Errorf("listing clients: %v", err)
		return nil, notFound("clients could not be loaded")
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		logging.Logger.Errorf("decoding clients: %v", err)
		return nil, notFound("clients could not be loaded")
	}
	return clients, nil
}

func (s *ClientService) SoftDeleteClient(ctx context.Context, clientID primitive.ObjectID) error {
	return s.setActive(ctx, clientID, false)
}

func (s *ClientService) RestoreClient(ctx context.Context, clientID primitive.ObjectID) error {
	return s.setActive(ctx, clientID, true)
}

func (s *ClientService) setActive(ctx context.Context, clientID primitive.ObjectID, active bool) error {
	result, err := s.ClientsCollection.UpdateOne(ctx,
		bson.M{"_id": clientID, "is_active": !active},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		logging.Logger.Errorf("toggling client %s active flag: %v", clientID.Hex(), err)
		return notFound("client %s could not be updated", clientID.Hex())
	}
	if result.MatchedCount == 0 {
		return notFound("client %s not found", clientID.Hex())
	}
	return nil
}
