package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DirectoryService answers existence and active-flag lookups for the entities
// the ledger validates against before accepting a transaction.
type DirectoryService struct {
	UsersCollection     *mongo.Collection
	EmployeesCollection *mongo.Collection
	ClientsCollection   *mongo.Collection
}

func NewDirectoryService(users, employees, clients *mongo.Collection) *DirectoryService {
	return &DirectoryService{
		UsersCollection:     users,
		EmployeesCollection: employees,
		ClientsCollection:   clients,
	}
}

func (s *DirectoryService) ActorExists(ctx context.Context, actorID primitive.ObjectID) (bool, error) {
	return s.activeExists(ctx, s.UsersCollection, actorID)
}

func (s *DirectoryService) EmployeeActive(ctx context.Context, employeeID primitive.ObjectID) (bool, error) {
	return s.activeExists(ctx, s.EmployeesCollection, employeeID)
}

func (s *DirectoryService) ClientActive(ctx context.Context, clientID primitive.ObjectID) (bool, error) {
	return s.activeExists(ctx, s.ClientsCollection, clientID)
}

func (s *DirectoryService) activeExists(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) (bool, error) {
	count, err := collection.CountDocuments(ctx, bson.M{"_id": id, "is_active": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
