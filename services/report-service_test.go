package services

import (
	"testing"

	"agency-crm/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func projectWith(budget, deposit int64) *models.Project {
	return &models.Project{
		ID:       primitive.NewObjectID(),
		SerialID: 1,
		Name:     "Website Redesign",
		Status:   models.StatusActive,
		Budget:   budget,
		Deposit:  deposit,
		IsActive: true,
	}
}

func TestSummarize_DepositPlusInstallments(t *testing.T) {
	project := projectWith(15000, 5000)
	project.ClientInstallments = []models.ClientInstallment{
		{Amount: 5000, Method: "bank_transfer"},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), summary.MoneyCollected)
	assert.Equal(t, int64(5000), summary.ClientBalanceDue)
	assert.InDelta(t, 0.667, summary.CollectionRate, 0.001)
}

func TestSummarize_EmployeeBalances(t *testing.T) {
	project := projectWith(20000, 0)
	employeeID := primitive.NewObjectID()
	project.Employees = []models.Assignment{
		{EmployeeID: employeeID, Name: "Dana", Role: "developer", Compensation: 4000},
	}
	project.EmployeePayments = []models.EmployeePayment{
		{EmployeeID: employeeID, Amount: 2000, Method: "cash"},
		{EmployeeID: employeeID, Amount: 1500, Method: "cash"},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(3500), summary.MoneyPaid)
	assert.Equal(t, int64(500), summary.EmployeeBalanceDue)
	assert.Equal(t, int64(4000), summary.TotalEmployeeCompensation)
	assert.Equal(t, int64(16000), summary.GrossProfit)
}

func TestSummarize_ClientBalanceNeverNegative(t *testing.T) {
	project := projectWith(10000, 8000)
	project.ClientInstallments = []models.ClientInstallment{
		{Amount: 5000, Method: "cash"},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(13000), summary.MoneyCollected)
	assert.Equal(t, int64(0), summary.ClientBalanceDue)
	assert.Greater(t, summary.CollectionRate, 1.0)
}

func TestSummarize_EmployeeBalanceNeverNegative(t *testing.T) {
	project := projectWith(10000, 0)
	employeeID := primitive.NewObjectID()
	project.Employees = []models.Assignment{
		{EmployeeID: employeeID, Role: "designer", Compensation: 1000},
	}
	project.EmployeePayments = []models.EmployeePayment{
		{EmployeeID: employeeID, Amount: 2500, Method: "cash"},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.EmployeeBalanceDue)
}

func TestSummarize_ZeroBudgetCollectionRate(t *testing.T) {
	project := projectWith(0, 1000)

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, float64(0), summary.CollectionRate)
	assert.Equal(t, int64(0), summary.ClientBalanceDue)
}

func TestSummarize_NoDriftOverManyInstallments(t *testing.T) {
	project := projectWith(5000000, 137)
	var expected int64 = 137
	for i := 0; i < 1000; i++ {
		amount := int64(i + 1)
		expected += amount
		project.ClientInstallments = append(project.ClientInstallments, models.ClientInstallment{
			Amount: amount,
			Method: "bank_transfer",
		})
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, expected, summary.MoneyCollected)
}

func TestSummarize_NetProfitToDate(t *testing.T) {
	project := projectWith(30000, 10000)
	project.ClientInstallments = []models.ClientInstallment{
		{Amount: 5000, Method: "cheque"},
	}
	project.EmployeePayments = []models.EmployeePayment{
		{EmployeeID: primitive.NewObjectID(), Amount: 4000, Method: "cash"},
	}
	project.Expenses = []models.Expense{
		{Description: "licenses", Amount: 1200, Category: models.ExpenseSoftware},
		{Description: "hosting", Amount: 300, Category: models.ExpenseSoftware},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(15000), summary.MoneyCollected)
	assert.Equal(t, int64(1500), summary.TotalExpenses)
	assert.Equal(t, int64(15000-4000-1500), summary.NetProfitToDate)
}

func TestSummarize_NegativeEmployeePaymentIsClawback(t *testing.T) {
	project := projectWith(10000, 0)
	employeeID := primitive.NewObjectID()
	project.Employees = []models.Assignment{
		{EmployeeID: employeeID, Role: "developer", Compensation: 3000},
	}
	project.EmployeePayments = []models.EmployeePayment{
		{EmployeeID: employeeID, Amount: 2000, Method: "cash"},
		{EmployeeID: employeeID, Amount: -500, Method: "cash", Note: "overpayment clawback"},
	}

	summary, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), summary.MoneyPaid)
	assert.Equal(t, int64(1500), summary.EmployeeBalanceDue)
}

func TestSummarize_Idempotent(t *testing.T) {
	project := projectWith(15000, 5000)
	project.ClientInstallments = []models.ClientInstallment{
		{Amount: 2500, Method: "cash"},
		{Amount: 1250, Method: "bank_transfer"},
	}
	project.Expenses = []models.Expense{
		{Description: "travel", Amount: 340, Category: models.ExpenseTravel},
	}

	first, err := Summarize(project)
	require.NoError(t, err)
	second, err := Summarize(project)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummarize_RejectsNegativeInstallment(t *testing.T) {
	project := projectWith(10000, 0)
	project.ClientInstallments = []models.ClientInstallment{
		{Amount: -100, Method: "cash"},
	}

	_, err := Summarize(project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildCompanyReport_Totals(t *testing.T) {
	p1 := projectWith(10000, 2000)
	p2 := projectWith(20000, 5000)
	p2.SerialID = 2
	p2.Name = "Mobile App"
	p2.ClientInstallments = []models.ClientInstallment{{Amount: 5000, Method: "cash"}}

	report := BuildCompanyReport([]models.Project{*p1, *p2})

	assert.Equal(t, 2, report.ProjectCount)
	assert.Equal(t, 0, report.SkippedCount)
	assert.Equal(t, int64(30000), report.TotalBudget)
	assert.Equal(t, int64(12000), report.TotalCollected)
	require.Len(t, report.Projects, 2)
}

func TestBuildCompanyReport_SkipsFailingProject(t *testing.T) {
	good1 := projectWith(10000, 1000)
	good2 := projectWith(20000, 2000)
	good2.SerialID = 2
	poisoned := projectWith(5000, 0)
	poisoned.SerialID = 3
	poisoned.ClientInstallments = []models.ClientInstallment{{Amount: -1, Method: "cash"}}

	report := BuildCompanyReport([]models.Project{*good1, *poisoned, *good2})

	assert.Equal(t, 2, report.ProjectCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, int64(30000), report.TotalBudget)
	require.Len(t, report.Projects, 2)
	for _, summary := range report.Projects {
		assert.NotEqual(t, poisoned.ID, summary.ProjectID)
	}
}

func TestBuildCompanyReport_DeduplicatesEmployees(t *testing.T) {
	shared := primitive.NewObjectID()
	other := primitive.NewObjectID()

	p1 := projectWith(10000, 0)
	p1.Employees = []models.Assignment{
		{EmployeeID: shared, Name: "Dana", Role: "developer", Compensation: 3000},
	}
	p2 := projectWith(20000, 0)
	p2.SerialID = 2
	p2.Employees = []models.Assignment{
		{EmployeeID: shared, Name: "Dana R.", Role: "lead", Compensation: 5000},
		{EmployeeID: other, Name: "Sam", Role: "designer", Compensation: 2000},
	}

	report := BuildCompanyReport([]models.Project{*p1, *p2})

	require.Len(t, report.Employees, 2)
	// First occurrence wins for display fields.
	assert.Equal(t, "Dana", report.Employees[0].Name)
	assert.Equal(t, "developer", report.Employees[0].Role)
	assert.Equal(t, other, report.Employees[1].EmployeeID)
}
