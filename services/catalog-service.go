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

// CatalogService serves one of the reference collections (departments,
// positions, skills, service offerings). Each instance is bound to its own
// collection and counter key.
type CatalogService struct {
	Collection *mongo.Collection
	Sequence   *SequenceService
	CounterKey string
	EntityName string
}

func NewCatalogService(collection *mongo.Collection, sequence *SequenceService, counterKey, entityName string) *CatalogService {
	return &CatalogService{
		Collection: collection,
		Sequence:   sequence,
		CounterKey: counterKey,
		EntityName: entityName,
	}
}

func (s *CatalogService) Create(ctx context.Context, name, description string) (*models.CatalogItem, error) {
	if name == "" {
		return nil, validationError("%s name is required", s.EntityName)
	}

	serial, err := s.Sequence.AllocateSerial(ctx, s.CounterKey)
	if err != nil {
		return nil, err
	}

	item := &models.CatalogItem{
		ID:          primitive.NewObjectID(),
		SerialID:    serial,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.Collection.InsertOne(ctx, item); err != nil {
		logging.Logger.Errorf("inserting %s %q: %v", s.EntityName, name, err)
		return nil, validationError("%s could not be created", s.EntityName)
	}
	return item, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.Collection.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("%s %s does not exist or is inactive", s.EntityName, id.Hex())
	}
	if err != nil {
		logging.Logger.Errorf("fetching %s %s: %v", s.EntityName, id.Hex(), err)
		return nil, notFound("%s %s could not be loaded", s.EntityName, id.Hex())
	}
	return &item, nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.CatalogItem, error) {
	opts := options.Find().SetSort(bson.M{"serial_id": 1})
	cursor, err := s.Collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		logging.Logger.Errorf("listing %ss: %v", s.EntityName, err)
		return nil, notFound("%ss could not be loaded", s.EntityName)
	}
	defer cursor.Close(ctx)

	items := []models.CatalogItem{}
	if err := cursor.All(ctx, &items); err != nil {
		logging.Logger.Errorf("decoding %ss: %v", s.EntityName, err)
		return nil, notFound("%ss could not be loaded", s.EntityName)
	}
	return items, nil
}

func (s *CatalogService) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return s.setActive(ctx, id, false)
}

func (s *CatalogService) Restore(ctx context.Context, id primitive.ObjectID) error {
	return s.setActive(ctx, id, true)
}

func (s *CatalogService) setActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	result, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": !active},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		logging.Logger.Errorf("toggling %s %s active flag: %v", s.EntityName, id.Hex(), err)
		return notFound("%s %s could not be updated", s.EntityName, id.Hex())
	}
	if result.MatchedCount == 0 {
		return notFound("%s %s not found", s.EntityName, id.Hex())
	}
	return nil
}
