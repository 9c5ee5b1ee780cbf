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

const employeeCounterKey = "employeeId"

type EmployeeService struct {
	EmployeesCollection *mongo.Collection
	Sequence            *SequenceService
}

func NewEmployeeService(employeesCollection *mongo.Collection, sequence *SequenceService) *EmployeeService {
	return &EmployeeService{EmployeesCollection: employeesCollection, Sequence: sequence}
}

type CreateEmployeeInput struct {
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	DepartmentID primitive.ObjectID   `json:"departmentId"`
	PositionID   primitive.ObjectID   `json:"positionId"`
	SkillIDs     []primitive.ObjectID `json:"skillIds"`
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*models.Employee, error) {
	if in.Name == "" {
		return nil, validationError("employee name is required")
	}
	if in.Email == "" {
		return nil, validationError("employee email is required")
	}

	serial, err := s.Sequence.AllocateSerial(ctx, employeeCounterKey)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		ID:           primitive.NewObjectID(),
		SerialID:     serial,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		DepartmentID: in.DepartmentID,
		PositionID:   in.PositionID,
		SkillIDs:     in.SkillIDs,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.EmployeesCollection.InsertOne(ctx, employee); err != nil {
		logging.Logger.Errorf("inserting employee %q: %v", in.Name, err)
		return nil, validationError("employee could not be created")
	}
	return employee, nil
}

func (s *EmployeeService) GetEmployeeByID(ctx context.Context, employeeID primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := s.EmployeesCollection.FindOne(ctx, bson.M{"_id": employeeID, "is_active": true}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("employee %s does not exist or is inactive", employeeID.Hex())
	}
	if err != nil {
		logging.Logger.Errorf("fetching employee %s: %v", employeeID.Hex(), err)
		return nil, notFound("employee %s could not be loaded", employeeID.Hex())
	}
	return &employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context, page, limit int64) ([]models.Employee, error) {
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

	cursor, err := s.EmployeesCollection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		logging.Logger.Errorf("listing employees: %v", err)
		return nil, notFound("employees could not be loaded")
	}
	defer cursor.Close(ctx)

	employees := []models.Employee{}
	if err := cursor.All(ctx, &employees); err != nil {
		logging.Logger.Errorf("decoding employees: %v", err)
		return nil, notFound("employees could not be loaded")
	}
	return employees, nil
}

func (s *EmployeeService) SoftDeleteEmployee(ctx context.Context, employeeID primitive.ObjectID) error {
	return s.setActive(ctx, employeeID, false)
}

func (s *EmployeeService) RestoreEmployee(ctx context.Context, employeeID primitive.ObjectID) error {
	return s.setActive(ctx, employeeID, true)
}

func (s *EmployeeService) setActive(ctx context.Context, employeeID primitive.ObjectID, active bool) error {
	result, err := s.EmployeesCollection.UpdateOne(ctx,
		bson.M{"_id": employeeID, "is_active": !active},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		logging.Logger.Errorf("toggling employee %s active flag: %v", employeeID.Hex(), err)
		return notFound("employee %s could not be updated", employeeID.Hex())
	}
	if result.MatchedCount == 0 {
		return notFound("employee %s not found", employeeID.Hex())
	}
	return nil
}
