package services

import (
	"context"

	"agency-crm/backend/logging"
	"agency-crm/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// dashboardProjectLimit caps how many project summaries the dashboard carries.
const dashboardProjectLimit = 25

// ReportService derives financial summaries from project documents. Every
// derived figure in the system is computed by Summarize and nowhere else, so
// the formulas cannot drift between reports.
type ReportService struct {
	ProjectsCollection *mongo.Collection
}

func NewReportService(projectsCollection *mongo.Collection) *ReportService {
	return &ReportService{ProjectsCollection: projectsCollection}
}

// Summarize computes the derived balances for one project from its current
// transaction logs. It is a pure function of the document: no clock, no
// storage access, identical input gives identical output. It fails on ledger
// records that could only exist from out-of-band writes, such as negative
// installment or expense amounts.
func Summarize(project *models.Project) (*models.FinancialSummary, error) {
	if project == nil {
		return nil, validationError("project is required")
	}

	moneyCollected := project.Deposit
	for _, inst := range project.ClientInstallments {
		if inst.Amount < 0 {
			return nil, validationError("project %s has a negative installment amount %d", project.ID.Hex(), inst.Amount)
		}
		moneyCollected += inst.Amount
	}

	var moneyPaid int64
	for _, payment := range project.EmployeePayments {
		moneyPaid += payment.Amount
	}

	var totalExpenses int64
	for _, expense := range project.Expenses {
		if expense.Amount < 0 {
			return nil, validationError("project %s has a negative expense amount %d", project.ID.Hex(), expense.Amount)
		}
		totalExpenses += expense.Amount
	}

	var totalCompensation int64
	for _, assignment := range project.Employees {
		totalCompensation += assignment.Compensation
	}

	summary := &models.FinancialSummary{
		ProjectID:                 project.ID,
		SerialID:                  project.SerialID,
		Name:                      project.Name,
		Status:                    project.Status,
		Budget:                    project.Budget,
		Deposit:                   project.Deposit,
		MoneyCollected:            moneyCollected,
		MoneyPaid:                 moneyPaid,
		TotalExpenses:             totalExpenses,
		TotalEmployeeCompensation: totalCompensation,
		GrossProfit:               project.Budget - totalCompensation,
		NetProfitToDate:           moneyCollected - moneyPaid - totalExpenses,
		ClientBalanceDue:          clampNonNegative(project.Budget - moneyCollected),
		EmployeeBalanceDue:        clampNonNegative(totalCompensation - moneyPaid),
	}
	if project.Budget > 0 {
		summary.CollectionRate = float64(moneyCollected) / float64(project.Budget)
	}
	return summary, nil
}

// ProjectSummary loads an active project and summarizes it.
func (s *ReportService) ProjectSummary(ctx context.Context, projectID primitive.ObjectID) (*models.FinancialSummary, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID, "is_active": true}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("project %s does not exist or is inactive", projectID.Hex())
	}
	if err != nil {
		logging.Logger.Errorf("fetching project %s for summary: %v", projectID.Hex(), err)
		return nil, notFound("project %s could not be loaded", projectID.Hex())
	}
	return Summarize(&project)
}

// CompanyReportFilters narrows which projects a company report covers.
// The zero value matches every active project.
type CompanyReportFilters struct {
	Status          models.ProjectStatus
	ClientID        primitive.ObjectID
	IncludeInactive bool
}

// CompanyReport summarizes every matched project and rolls the figures into
// company-wide totals. A project whose summary fails is logged and skipped
// rather than failing the whole report.
func (s *ReportService) CompanyReport(ctx context.Context, filters CompanyReportFilters) (*models.CompanyReport, error) {
	filter := bson.M{}
	if !filters.IncludeInactive {
		filter["is_active"] = true
	}
	if filters.Status != "" {
		if !models.ValidProjectStatus(filters.Status) {
			return nil, validationError("unknown project status %q", filters.Status)
		}
		filter["status"] = filters.Status
	}
	if !filters.ClientID.IsZero() {
		filter["client_id"] = filters.ClientID
	}

	projects, err := s.findProjects(ctx, filter, 0)
	if err != nil {
		return nil, err
	}
	report := BuildCompanyReport(projects)
	return &report, nil
}

// Dashboard reports on active, in-flight projects only, capped for
// at-a-glance use.
func (s *ReportService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	filter := bson.M{
		"is_active": true,
		"status":    bson.M{"$in": []models.ProjectStatus{models.StatusPlanning, models.StatusActive}},
	}
	projects, err := s.findProjects(ctx, filter, dashboardProjectLimit)
	if err != nil {
		return nil, err
	}
	report := BuildCompanyReport(projects)
	return &models.Dashboard{
		ProjectCount:   report.ProjectCount,
		TotalBudget:    report.TotalBudget,
		TotalCollected: report.TotalCollected,
		TotalPaid:      report.TotalPaid,
		TotalExpenses:  report.TotalExpenses,
		TotalNetProfit: report.TotalNetProfit,
		Projects:       report.Projects,
	}, nil
}

// BuildCompanyReport summarizes each project and accumulates totals plus a
// de-duplicated employee roster (keyed by employee id, first occurrence wins).
// Projects that fail to summarize are counted, logged and excluded.
func BuildCompanyReport(projects []models.Project) models.CompanyReport {
	report := models.CompanyReport{
		Projects:  []models.FinancialSummary{},
		Employees: []models.ReportEmployee{},
	}
	seen := make(map[primitive.ObjectID]bool)

	for i := range projects {
		summary, err := Summarize(&projects[i])
		if err != nil {
			logging.Logger.Warnf("skipping project %s in roll-up: %v", projects[i].ID.Hex(), err)
			report.SkippedCount++
			continue
		}
		report.ProjectCount++
		report.TotalBudget += summary.Budget
		report.TotalCollected += summary.MoneyCollected
		report.TotalPaid += summary.MoneyPaid
		report.TotalExpenses += summary.TotalExpenses
		report.TotalNetProfit += summary.NetProfitToDate
		report.Projects = append(report.Projects, *summary)

		for _, assignment := range projects[i].Employees {
			if seen[assignment.EmployeeID] {
				continue
			}
			seen[assignment.EmployeeID] = true
			report.Employees = append(report.Employees, models.ReportEmployee{
				EmployeeID:   assignment.EmployeeID,
				Name:         assignment.Name,
				Role:         assignment.Role,
				Compensation: assignment.Compensation,
			})
		}
	}
	return report
}

func (s *ReportService) findProjects(ctx context.Context, filter bson.M, limit int64) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"serial_id": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		logging.Logger.Errorf("fetching projects for report: %v", err)
		return nil, notFound("projects could not be loaded")
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		logging.Logger.Errorf("decoding projects for report: %v", err)
		return nil, notFound("projects could not be loaded")
	}
	return projects, nil
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
