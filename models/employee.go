package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	SerialID     int64                `json:"serialId" bson:"serial_id"`
	Name         string               `json:"name" bson:"name"`
	Email        string               `json:"email" bson:"email"`
	Phone        string               `json:"phone,omitempty" bson:"phone,omitempty"`
	DepartmentID primitive.ObjectID   `json:"departmentId,omitempty" bson:"department_id,omitempty"`
	PositionID   primitive.ObjectID   `json:"positionId,omitempty" bson:"position_id,omitempty"`
	SkillIDs     []primitive.ObjectID `json:"skillIds,omitempty" bson:"skill_ids,omitempty"`
	IsActive     bool                 `json:"isActive" bson:"is_active"`
	CreatedAt    time.Time            `json:"createdAt" bson:"created_at"`
}
