package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusOnHold    ProjectStatus = "on_hold"
	StatusCompleted ProjectStatus = "completed"
	StatusCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatus reports whether s is one of the known project statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Assignment is one employee on a project roster, with the agreed compensation
// for the whole engagement. PaymentStatus is a display label only; the actual
// amounts paid live in the employee payments log.
type Assignment struct {
	EmployeeID    primitive.ObjectID `json:"employeeId" bson:"employee_id"`
	Name          string             `json:"name" bson:"name"`
	Role          string             `json:"role" bson:"role"`
	Compensation  int64              `json:"compensation" bson:"compensation"`
	PaymentStatus string             `json:"paymentStatus" bson:"payment_status"`
}

// ClientInstallment is a payment received from the client. Immutable once written.
type ClientInstallment struct {
	Amount     int64              `json:"amount" bson:"amount"`
	Method     string             `json:"method" bson:"method"`
	Date       time.Time          `json:"date" bson:"date"`
	Reference  string             `json:"reference,omitempty" bson:"reference,omitempty"`
	Note       string             `json:"note,omitempty" bson:"note,omitempty"`
	RecordedBy primitive.ObjectID `json:"recordedBy" bson:"recorded_by"`
	RecordedAt time.Time          `json:"recordedAt" bson:"recorded_at"`
}

// EmployeePayment is money paid out to a rostered employee. A negative amount
// records a clawback; see finance service validation. Immutable once written.
type EmployeePayment struct {
	EmployeeID primitive.ObjectID `json:"employeeId" bson:"employee_id"`
	Amount     int64              `json:"amount" bson:"amount"`
	Method     string             `json:"method" bson:"method"`
	Date       time.Time          `json:"date" bson:"date"`
	Note       string             `json:"note,omitempty" bson:"note,omitempty"`
	RecordedBy primitive.ObjectID `json:"recordedBy" bson:"recorded_by"`
	RecordedAt time.Time          `json:"recordedAt" bson:"recorded_at"`
}

type ExpenseCategory string

const (
	ExpenseEquipment ExpenseCategory = "equipment"
	ExpenseSoftware  ExpenseCategory = "software"
	ExpenseTravel    ExpenseCategory = "travel"
	ExpenseOffice    ExpenseCategory = "office"
	ExpenseMarketing ExpenseCategory = "marketing"
	ExpenseOther     ExpenseCategory = "other"
)

// ValidExpenseCategory reports whether c is one of the known expense categories.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseEquipment, ExpenseSoftware, ExpenseTravel, ExpenseOffice, ExpenseMarketing, ExpenseOther:
		return true
	}
	return false
}

// Expense is a project cost. Immutable once written.
type Expense struct {
	Description string             `json:"description" bson:"description"`
	Amount      int64              `json:"amount" bson:"amount"`
	Category    ExpenseCategory    `json:"category" bson:"category"`
	Date        time.Time          `json:"date" bson:"date"`
	Receipt     string             `json:"receipt,omitempty" bson:"receipt,omitempty"`
	RecordedBy  primitive.ObjectID `json:"recordedBy" bson:"recorded_by"`
	RecordedAt  time.Time          `json:"recordedAt" bson:"recorded_at"`
}

// Project is one billable engagement. The three transaction logs are embedded
// and append-only: records are added with $push and never rewritten in place.
// All amounts are integer minor currency units.
type Project struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	SerialID    int64                `json:"serialId" bson:"serial_id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	ClientID    primitive.ObjectID   `json:"clientId" bson:"client_id"`
	Status      ProjectStatus        `json:"status" bson:"status"`
	Budget      int64                `json:"budget" bson:"budget"`
	Deposit     int64                `json:"deposit" bson:"deposit"`
	Employees   []Assignment         `json:"employees" bson:"employees"`
	ServiceIDs  []primitive.ObjectID `json:"serviceIds,omitempty" bson:"service_ids,omitempty"`

	ClientInstallments []ClientInstallment `json:"clientInstallments" bson:"client_installments"`
	EmployeePayments   []EmployeePayment   `json:"employeePayments" bson:"employee_payments"`
	Expenses           []Expense           `json:"expenses" bson:"expenses"`

	IsActive  bool      `json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
