package services

import (
	"context"
	"time"

	"agency-crm/backend/logging"
	"agency-crm/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FinanceService appends transactions to a project's embedded ledgers.
// Appends go through a single atomic $push on the project document, never a
// read-modify-write of the whole array, so two concurrent appends to the same
// project cannot lose each other. Records are immutable once written; a
// mistake can only be offset by a later correcting entry.
type FinanceService struct {
	ProjectsCollection *mongo.Collection
	Directory          *DirectoryService
	Notifier           *NotifierService
}

func NewFinanceService(projectsCollection *mongo.Collection, directory *DirectoryService, notifier *NotifierService) *FinanceService {
	return &FinanceService{
		ProjectsCollection: projectsCollection,
		Directory:          directory,
		Notifier:           notifier,
	}
}

type InstallmentInput struct {
	Amount    int64     `json:"amount"`
	Method    string    `json:"method"`
	Date      time.Time `json:"date"`
	Reference string    `json:"reference"`
	Note      string    `json:"note"`
}

type EmployeePaymentInput struct {
	EmployeeID primitive.ObjectID `json:"employeeId"`
	Amount     int64              `json:"amount"`
	Method     string             `json:"method"`
	Date       time.Time          `json:"date"`
	Note       string             `json:"note"`
}

type ExpenseInput struct {
	Description string                 `json:"description"`
	Amount      int64                  `json:"amount"`
	Category    models.ExpenseCategory `json:"category"`
	Date        time.Time              `json:"date"`
	Receipt     string                 `json:"receipt"`
}

// ValidateInstallmentInput checks the payload before it reaches storage.
func ValidateInstallmentInput(in InstallmentInput) error {
	if in.Amount <= 0 {
		return validationError("installment amount must be positive, got %d", in.Amount)
	}
	if in.Method == "" {
		return validationError("installment payment method is required")
	}
	return nil
}

// ValidateEmployeePaymentInput checks the payload before it reaches storage.
// A negative amount is allowed and records a clawback against earlier
// payments; only a zero amount is rejected.
func ValidateEmployeePaymentInput(in EmployeePaymentInput) error {
	if in.EmployeeID.IsZero() {
		return validationError("employee id is required")
	}
	if in.Amount == 0 {
		return validationError("payment amount must not be zero")
	}
	if in.Method == "" {
		return validationError("payment method is required")
	}
	return nil
}

// ValidateExpenseInput checks the payload before it reaches storage.
func ValidateExpenseInput(in ExpenseInput) error {
	if in.Description == "" {
		return validationError("expense description is required")
	}
	if in.Amount <= 0 {
		return validationError("expense amount must be positive, got %d", in.Amount)
	}
	if !models.ValidExpenseCategory(in.Category) {
		return validationError("unknown expense category %q", in.Category)
	}
	return nil
}

// EmployeeOnRoster reports whether the employee is assigned to the project.
func EmployeeOnRoster(project *models.Project, employeeID primitive.ObjectID) bool {
	for _, a := range project.Employees {
		if a.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

// RecordClientInstallment appends a client payment to the project ledger and
// returns the updated project.
func (s *FinanceService) RecordClientInstallment(ctx context.Context, projectID primitive.ObjectID, in InstallmentInput, actorID primitive.ObjectID) (*models.Project, error) {
	if err := ValidateInstallmentInput(in); err != nil {
		return nil, err
	}
	if _, err := s.fetchActiveProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	record := models.ClientInstallment{
		Amount:     in.Amount,
		Method:     in.Method,
		Date:       transactionDate(in.Date),
		Reference:  in.Reference,
		Note:       in.Note,
		RecordedBy: actorID,
		RecordedAt: time.Now().UTC(),
	}
	project, err := s.appendToLedger(ctx, projectID, "client_installments", record)
	if err != nil {
		return nil, err
	}
	s.notify(project, "client_installment", record.Amount)
	return project, nil
}

// RecordEmployeePayment appends a payout to a rostered employee and returns
// the updated project.
func (s *FinanceService) RecordEmployeePayment(ctx context.Context, projectID primitive.ObjectID, in EmployeePaymentInput, actorID primitive.ObjectID) (*models.Project, error) {
	if err := ValidateEmployeePaymentInput(in); err != nil {
		return nil, err
	}
	project, err := s.fetchActiveProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	active, err := s.Directory.EmployeeActive(ctx, in.EmployeeID)
	if err != nil {
		return nil, invalidReference("could not verify employee %s", in.EmployeeID.Hex())
	}
	if !active {
		return nil, invalidReference("employee %s does not exist or is inactive", in.EmployeeID.Hex())
	}
	if !EmployeeOnRoster(project, in.EmployeeID) {
		return nil, invalidReference("employee %s is not assigned to project %s", in.EmployeeID.Hex(), projectID.Hex())
	}

	record := models.EmployeePayment{
		EmployeeID: in.EmployeeID,
		Amount:     in.Amount,
		Method:     in.Method,
		Date:       transactionDate(in.Date),
		Note:       in.Note,
		RecordedBy: actorID,
		RecordedAt: time.Now().UTC(),
	}
	updated, err := s.appendToLedger(ctx, projectID, "employee_payments", record)
	if err != nil {
		return nil, err
	}
	s.notify(updated, "employee_payment", record.Amount)
	return updated, nil
}

// RecordExpense appends a project cost and returns the updated project.
func (s *FinanceService) RecordExpense(ctx context.Context, projectID primitive.ObjectID, in ExpenseInput, actorID primitive.ObjectID) (*models.Project, error) {
	if err := ValidateExpenseInput(in); err != nil {
		return nil, err
	}
	if _, err := s.fetchActiveProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.checkActor(ctx, actorID); err != nil {
		return nil, err
	}

	record := models.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        transactionDate(in.Date),
		Receipt:     in.Receipt,
		RecordedBy:  actorID,
		RecordedAt:  time.Now().UTC(),
	}
	project, err := s.appendToLedger(ctx, projectID, "expenses", record)
	if err != nil {
		return nil, err
	}
	s.notify(project, "expense", record.Amount)
	return project, nil
}

func (s *FinanceService) fetchActiveProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
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

func (s *FinanceService) checkActor(ctx context.Context, actorID primitive.ObjectID) error {
	if actorID.IsZero() {
		return invalidReference("recording user id is required")
	}
	exists, err := s.Directory.ActorExists(ctx, actorID)
	if err != nil {
		return invalidReference("could not verify user %s", actorID.Hex())
	}
	if !exists {
		return invalidReference("user %s does not exist or is inactive", actorID.Hex())
	}
	return nil
}

// appendToLedger pushes one record onto the named log field. The filter keeps
// the active-flag check inside the same atomic update so an append can never
// land on a project soft-deleted in between.
func (s *FinanceService) appendToLedger(ctx context.Context, projectID primitive.ObjectID, field string, record interface{}) (*models.Project, error) {
	filter := bson.M{"_id": projectID, "is_active": true}
	update := bson.M{
		"$push": bson.M{field: record},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := s.ProjectsCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		logging.Logger.Errorf("appending to %s of project %s: %v", field, projectID.Hex(), err)
		return nil, notFound("project %s could not be updated", projectID.Hex())
	}
	if result.MatchedCount == 0 {
		return nil, notFound("project %s does not exist or is inactive", projectID.Hex())
	}
	return s.fetchActiveProject(ctx, projectID)
}

func transactionDate(d time.Time) time.Time {
	if d.IsZero() {
		return time.Now().UTC()
	}
	return d
}

func (s *FinanceService) notify(project *models.Project, kind string, amount int64) {
	if s.Notifier == nil || project == nil {
		return
	}
	s.Notifier.FinanceEventRecorded(project.ID, kind, amount)
}
