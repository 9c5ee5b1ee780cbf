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

const projectCounterKey = "projectId"

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	Directory          *DirectoryService
	Sequence           *SequenceService
}

func NewProjectService(projectsCollection *mongo.Collection, directory *DirectoryService, sequence *SequenceService) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		Directory:          directory,
		Sequence:           sequence,
	}
}

type CreateProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	ClientID    primitive.ObjectID   `json:"clientId"`
	Status      models.ProjectStatus `json:"status"`
	Budget      int64                `json:"budget"`
	Deposit     int64                `json:"deposit"`
	Employees   []models.Assignment  `json:"employees"`
	ServiceIDs  []primitive.ObjectID `json:"serviceIds"`
}

type UpdateProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Budget      *int64               `json:"budget"`
}

type ListProjectsFilter struct {
	Status   models.ProjectStatus
	ClientID primitive.ObjectID
	Page     int64
	Limit    int64
}

// CreateProject allocates the next project serial id, validates the client and
// roster references and persists the project with empty transaction logs.
func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if in.Name == "" {
		return nil, validationError("project name is required")
	}
	if in.Budget < 0 {
		return nil, validationError("project budget must not be negative")
	}
	if in.Deposit < 0 {
		return nil, validationError("project deposit must not be negative")
	}
	if in.Status == "" {
		in.Status = models.StatusPlanning
	}
	if !models.ValidProjectStatus(in.Status) {
		return nil, validationError("unknown project status %q", in.Status)
	}

	if in.ClientID.IsZero() {
		return nil, validationError("client id is required")
	}
	active, err := s.Directory.ClientActive(ctx, in.ClientID)
	if err != nil {
		return nil, invalidReference("could not verify client %s", in.ClientID.Hex())
	}
	if !active {
		return nil, invalidReference("client %s does not exist or is inactive", in.ClientID.Hex())
	}

	for _, assignment := range in.Employees {
		if assignment.Compensation < 0 {
			return nil, validationError("compensation for employee %s must not be negative", assignment.EmployeeID.Hex())
		}
		active, err := s.Directory.EmployeeActive(ctx, assignment.EmployeeID)
		if err != nil {
			return nil, invalidReference("could not verify employee %s", assignment.EmployeeID.Hex())
		}
		if !active {
			return nil, invalidReference("employee %s does not exist or is inactive", assignment.EmployeeID.Hex())
		}
	}

	serial, err := s.Sequence.AllocateSerial(ctx, projectCounterKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &models.Project{
		ID:                 primitive.NewObjectID(),
		SerialID:           serial,
		Name:               in.Name,
		Description:        in.Description,
		ClientID:           in.ClientID,
		Status:             in.Status,
		Budget:             in.Budget,
		Deposit:            in.Deposit,
		Employees:          in.Employees,
		ServiceIDs:         in.ServiceIDs,
		ClientInstallments: []models.ClientInstallment{},
		EmployeePayments:   []models.EmployeePayment{},
		Expenses:           []models.Expense{},
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if project.Employees == nil {
		project.Employees = []models.Assignment{}
	}

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		logging.Logger.Errorf("inserting project %q: %v", in.Name, err)
		return nil, validationError("project could not be created")
	}
	logging.Logger.Infof("project %q created with serial %d", project.Name, project.SerialID)
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID, "is_active": true}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("project %s does not exist or is inactive", projectID.Hex())
	}
	if err != nil {
		logging.Logger.Errorf("fetching project %s: %v", projectID.Hex(), err)
		return nil, notFound("project %s could not be loaded", projectID.Hex())
	}
	return &project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, f ListProjectsFilter) ([]models.Project, error) {
	filter := bson.M{"is_active": true}
	if f.Status != "" {
		if !models.ValidProjectStatus(f.Status) {
			return nil, validationError("unknown project status %q", f.Status)
		}
		filter["status"] = f.Status
	}
	if !f.ClientID.IsZero() {
		filter["client_id"] = f.ClientID
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	opts := options.Find().
		SetSort(bson.M{"serial_id": 1}).
		SetSkip((f.Page - 1) * f.Limit).
		SetLimit(f.Limit)

	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		logging.Logger.Errorf("listing projects: %v", err)
		return nil, notFound("projects could not be loaded")
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		logging.Logger.Errorf("decoding projects: %v", err)
		return nil, notFound("projects could not be loaded")
	}
	return projects, nil
}

// UpdateProject edits metadata and status only. The transaction logs cannot be
// touched through this path.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID primitive.ObjectID, in UpdateProjectInput) (*models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Name != "" {
		set["name"] = in.Name
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Status != "" {
		if !models.ValidProjectStatus(in.Status) {
			return nil, validationError("unknown project status %q", in.Status)
		}
		set["status"] = in.Status
	}
	if in.Budget != nil {
		if *in.Budget < 0 {
			return nil, validationError("project budget must not be negative")
		}
		set["budget"] = *in.Budget
	}

	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID, "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		logging.Logger.Errorf("updating project %s: %v", projectID.Hex(), err)
		return nil, notFound("project %s could not be updated", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return nil, notFound("project %s does not exist or is inactive", projectID.Hex())
	}
	return s.GetProjectByID(ctx, projectID)
}

// AssignEmployee adds an employee to the project roster with an atomic $push,
// the same discipline the ledger appends use.
func (s *ProjectService) AssignEmployee(ctx context.Context, projectID primitive.ObjectID, assignment models.Assignment) (*models.Project, error) {
	if assignment.EmployeeID.IsZero() {
		return nil, validationError("employee id is required")
	}
	if assignment.Compensation < 0 {
		return nil, validationError("compensation must not be negative")
	}
	active, err := s.Directory.EmployeeActive(ctx, assignment.EmployeeID)
	if err != nil {
		return nil, invalidReference("could not verify employee %s", assignment.EmployeeID.Hex())
	}
	if !active {
		return nil, invalidReference("employee %s does not exist or is inactive", assignment.EmployeeID.Hex())
	}

	project, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if EmployeeOnRoster(project, assignment.EmployeeID) {
		return nil, validationError("employee %s is already assigned to project %s", assignment.EmployeeID.Hex(), projectID.Hex())
	}
	if assignment.PaymentStatus == "" {
		assignment.PaymentStatus = "pending"
	}

	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID, "is_active": true, "employees.employee_id": bson.M{"$ne": assignment.EmployeeID}},
		bson.M{
			"$push": bson.M{"employees": assignment},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		logging.Logger.Errorf("assigning employee to project %s: %v", projectID.Hex(), err)
		return nil, notFound("project %s could not be updated", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return nil, validationError("employee %s is already assigned to project %s", assignment.EmployeeID.Hex(), projectID.Hex())
	}
	return s.GetProjectByID(ctx, projectID)
}

// RemoveEmployee pulls an employee off the roster. Payments already recorded
// for the employee stay in the ledger untouched.
func (s *ProjectService) RemoveEmployee(ctx context.Context, projectID, employeeID primitive.ObjectID) error {
	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID, "is_active": true},
		bson.M{
			"$pull": bson.M{"employees": bson.M{"employee_id": employeeID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		logging.Logger.Errorf("removing employee from project %s: %v", projectID.Hex(), err)
		return notFound("project %s could not be updated", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return notFound("project %s does not exist or is inactive", projectID.Hex())
	}
	if result.ModifiedCount == 0 {
		return invalidReference("employee %s is not assigned to project %s", employeeID.Hex(), projectID.Hex())
	}
	return nil
}

// SoftDeleteProject marks the project inactive; the document and its ledgers
// remain intact and restorable.
func (s *ProjectService) SoftDeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	return s.setActive(ctx, projectID, false)
}

// RestoreProject reverses a soft delete.
func (s *ProjectService) RestoreProject(ctx context.Context, projectID primitive.ObjectID) error {
	return s.setActive(ctx, projectID, true)
}

func (s *ProjectService) setActive(ctx context.Context, projectID primitive.ObjectID, active bool) error {
	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID, "is_active": !active},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		logging.Logger.Errorf("toggling project %s active flag: %v", projectID.Hex(), err)
		return notFound("project %s could not be updated", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return notFound("project %s not found", projectID.Hex())
	}
	return nil
}

// DeleteProjectPermanently removes the document, ledgers included. Distinct
// from soft delete and not reversible.
func (s *ProjectService) DeleteProjectPermanently(ctx context.Context, projectID primitive.ObjectID) error {
	result, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		logging.Logger.Errorf("deleting project %s: %v", projectID.Hex(), err)
		return notFound("project %s could not be deleted", projectID.Hex())
	}
	if result.DeletedCount == 0 {
		return notFound("project %s not found", projectID.Hex())
	}
	logging.Logger.Warnf("project %s permanently deleted", projectID.Hex())
	return nil
}
