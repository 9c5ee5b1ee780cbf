package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FinancialSummary holds the derived balances for one project. Nothing in here
// is ever persisted; it is recomputed from the transaction logs on every read.
type FinancialSummary struct {
	ProjectID      primitive.ObjectID `json:"projectId"`
	SerialID       int64              `json:"serialId"`
	Name           string             `json:"name"`
	Status         ProjectStatus      `json:"status"`
	Budget         int64              `json:"budget"`
	Deposit        int64              `json:"deposit"`
	MoneyCollected int64              `json:"moneyCollected"`
	MoneyPaid      int64              `json:"moneyPaid"`
	TotalExpenses  int64              `json:"totalExpenses"`

	// TotalEmployeeCompensation is the contractual obligation over the roster,
	// distinct from MoneyPaid which sums actual payments.
	TotalEmployeeCompensation int64 `json:"totalEmployeeCompensation"`

	GrossProfit        int64   `json:"grossProfit"`
	NetProfitToDate    int64   `json:"netProfitToDate"`
	ClientBalanceDue   int64   `json:"clientBalanceDue"`
	EmployeeBalanceDue int64   `json:"employeeBalanceDue"`
	CollectionRate     float64 `json:"collectionRate"`
}

// ReportEmployee is one entry in a roll-up's de-duplicated employee roster.
type ReportEmployee struct {
	EmployeeID   primitive.ObjectID `json:"employeeId"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	Compensation int64              `json:"compensation"`
}

// CompanyReport aggregates the summaries of every matched project.
type CompanyReport struct {
	ProjectCount   int                `json:"projectCount"`
	SkippedCount   int                `json:"skippedCount"`
	TotalBudget    int64              `json:"totalBudget"`
	TotalCollected int64              `json:"totalCollected"`
	TotalPaid      int64              `json:"totalPaid"`
	TotalExpenses  int64              `json:"totalExpenses"`
	TotalNetProfit int64              `json:"totalNetProfit"`
	Projects       []FinancialSummary `json:"projects"`
	Employees      []ReportEmployee   `json:"employees"`
}

// Dashboard is the at-a-glance view over active, in-flight projects.
type Dashboard struct {
	ProjectCount   int                `json:"projectCount"`
	TotalBudget    int64              `json:"totalBudget"`
	TotalCollected int64              `json:"totalCollected"`
	TotalPaid      int64              `json:"totalPaid"`
	TotalExpenses  int64              `json:"totalExpenses"`
	TotalNetProfit int64              `json:"totalNetProfit"`
	Projects       []FinancialSummary `json:"projects"`
}
