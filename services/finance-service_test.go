package services

import (
	"context"
	"os"
	"testing"
	"time"

	"agency-crm/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestValidateInstallmentInput(t *testing.T) {
	valid := InstallmentInput{Amount: 1000, Method: "bank_transfer"}
	assert.NoError(t, ValidateInstallmentInput(valid))

	missing := InstallmentInput{Method: "cash"}
	assert.ErrorIs(t, ValidateInstallmentInput(missing), ErrValidation)

	negative := InstallmentInput{Amount: -50, Method: "cash"}
	assert.ErrorIs(t, ValidateInstallmentInput(negative), ErrValidation)

	noMethod := InstallmentInput{Amount: 100}
	assert.ErrorIs(t, ValidateInstallmentInput(noMethod), ErrValidation)
}

func TestValidateEmployeePaymentInput(t *testing.T) {
	employeeID := primitive.NewObjectID()

	valid := EmployeePaymentInput{EmployeeID: employeeID, Amount: 500, Method: "cash"}
	assert.NoError(t, ValidateEmployeePaymentInput(valid))

	// Negative amounts record clawbacks and are accepted.
	clawback := EmployeePaymentInput{EmployeeID: employeeID, Amount: -500, Method: "cash"}
	assert.NoError(t, ValidateEmployeePaymentInput(clawback))

	zero := EmployeePaymentInput{EmployeeID: employeeID, Method: "cash"}
	assert.ErrorIs(t, ValidateEmployeePaymentInput(zero), ErrValidation)

	noEmployee := EmployeePaymentInput{Amount: 500, Method: "cash"}
	assert.ErrorIs(t, ValidateEmployeePaymentInput(noEmployee), ErrValidation)
}

func TestValidateExpenseInput(t *testing.T) {
	valid := ExpenseInput{Description: "licenses", Amount: 300, Category: models.ExpenseSoftware}
	assert.NoError(t, ValidateExpenseInput(valid))

	unknownCategory := ExpenseInput{Description: "misc", Amount: 300, Category: "snacks"}
	assert.ErrorIs(t, ValidateExpenseInput(unknownCategory), ErrValidation)

	negative := ExpenseInput{Description: "misc", Amount: -10, Category: models.ExpenseOther}
	assert.ErrorIs(t, ValidateExpenseInput(negative), ErrValidation)

	noDescription := ExpenseInput{Amount: 10, Category: models.ExpenseOther}
	assert.ErrorIs(t, ValidateExpenseInput(noDescription), ErrValidation)
}

func TestEmployeeOnRoster(t *testing.T) {
	onRoster := primitive.NewObjectID()
	project := &models.Project{
		Employees: []models.Assignment{
			{EmployeeID: onRoster, Role: "developer", Compensation: 1000},
		},
	}

	assert.True(t, EmployeeOnRoster(project, onRoster))
	assert.False(t, EmployeeOnRoster(project, primitive.NewObjectID()))
}

// --- integration tests, skipped without a running MongoDB ---

type testEnv struct {
	db       *mongo.Database
	finance  *FinanceService
	sequence *SequenceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("agency_test_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	directory := NewDirectoryService(db.Collection("users"), db.Collection("employees"), db.Collection("clients"))
	return &testEnv{
		db:       db,
		finance:  NewFinanceService(db.Collection("projects"), directory, nil),
		sequence: NewSequenceService(db.Collection("counters")),
	}
}

func (env *testEnv) seedActor(t *testing.T) primitive.ObjectID {
	t.Helper()
	actor := models.User{ID: primitive.NewObjectID(), Username: "accountant", Role: "accountant", IsActive: true}
	_, err := env.db.Collection("users").InsertOne(context.Background(), actor)
	require.NoError(t, err)
	return actor.ID
}

func (env *testEnv) seedEmployee(t *testing.T) primitive.ObjectID {
	t.Helper()
	employee := models.Employee{ID: primitive.NewObjectID(), SerialID: 1, Name: "Dana", Email: "dana@example.com", IsActive: true}
	_, err := env.db.Collection("employees").InsertOne(context.Background(), employee)
	require.NoError(t, err)
	return employee.ID
}

func (env *testEnv) seedProject(t *testing.T, roster []models.Assignment) primitive.ObjectID {
	t.Helper()
	project := models.Project{
		ID:                 primitive.NewObjectID(),
		SerialID:           1,
		Name:               "Website Redesign",
		ClientID:           primitive.NewObjectID(),
		Status:             models.StatusActive,
		Budget:             15000,
		Deposit:            5000,
		Employees:          roster,
		ClientInstallments: []models.ClientInstallment{},
		EmployeePayments:   []models.EmployeePayment{},
		Expenses:           []models.Expense{},
		IsActive:           true,
		CreatedAt:          time.Now().UTC(),
	}
	if project.Employees == nil {
		project.Employees = []models.Assignment{}
	}
	_, err := env.db.Collection("projects").InsertOne(context.Background(), project)
	require.NoError(t, err)
	return project.ID
}

func TestRecordClientInstallment_Appends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actorID := env.seedActor(t)
	projectID := env.seedProject(t, nil)

	updated, err := env.finance.RecordClientInstallment(ctx, projectID, InstallmentInput{
		Amount: 5000,
		Method: "bank_transfer",
	}, actorID)
	require.NoError(t, err)

	require.Len(t, updated.ClientInstallments, 1)
	assert.Equal(t, int64(5000), updated.ClientInstallments[0].Amount)
	assert.Equal(t, actorID, updated.ClientInstallments[0].RecordedBy)
	assert.False(t, updated.ClientInstallments[0].RecordedAt.IsZero())

	summary, err := Summarize(updated)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), summary.MoneyCollected)
	assert.Equal(t, int64(5000), summary.ClientBalanceDue)
}

func TestRecordEmployeePayment_RejectsUnassignedEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actorID := env.seedActor(t)
	employeeID := env.seedEmployee(t)
	projectID := env.seedProject(t, nil) // empty roster

	_, err := env.finance.RecordEmployeePayment(ctx, projectID, EmployeePaymentInput{
		EmployeeID: employeeID,
		Amount:     1000,
		Method:     "cash",
	}, actorID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReference)

	// The ledger must be untouched.
	var project models.Project
	err = env.db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	require.NoError(t, err)
	assert.Len(t, project.EmployeePayments, 0)
}

func TestRecordEmployeePayment_RosteredEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actorID := env.seedActor(t)
	employeeID := env.seedEmployee(t)
	projectID := env.seedProject(t, []models.Assignment{
		{EmployeeID: employeeID, Name: "Dana", Role: "developer", Compensation: 4000},
	})

	for _, amount := range []int64{2000, 1500} {
		_, err := env.finance.RecordEmployeePayment(ctx, projectID, EmployeePaymentInput{
			EmployeeID: employeeID,
			Amount:     amount,
			Method:     "cash",
		}, actorID)
		require.NoError(t, err)
	}

	var project models.Project
	err := env.db.Collection("projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	require.NoError(t, err)

	summary, err := Summarize(&project)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), summary.MoneyPaid)
	assert.Equal(t, int64(500), summary.EmployeeBalanceDue)
}

func TestRecordExpense_UnknownActorRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID := env.seedProject(t, nil)

	_, err := env.finance.RecordExpense(ctx, projectID, ExpenseInput{
		Description: "licenses",
		Amount:      300,
		Category:    models.ExpenseSoftware,
	}, primitive.NewObjectID())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRecordInstallment_InactiveProjectRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actorID := env.seedActor(t)
	projectID := env.seedProject(t, nil)

	_, err := env.db.Collection("projects").UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	require.NoError(t, err)

	_, err = env.finance.RecordClientInstallment(ctx, projectID, InstallmentInput{
		Amount: 100,
		Method: "cash",
	}, actorID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
