package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "Active"
	TaskStatusCompleted TaskStatus = "Completed"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusActive || s == TaskStatusCompleted
}

// TaskRecurrence is an advisory repeat cadence. The empty value means none.
type TaskRecurrence string

const (
	RecurrenceNone    TaskRecurrence = ""
	RecurrenceDaily   TaskRecurrence = "Daily"
	RecurrenceWeekly  TaskRecurrence = "Weekly"
	RecurrenceMonthly TaskRecurrence = "Monthly"
)

func (r TaskRecurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type Task struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uint64         `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     *time.Time     `gorm:"index" json:"due_date"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	Tags        []string       `gorm:"type:text;serializer:json" json:"tags"`
	Recurrence  TaskRecurrence `gorm:"type:varchar(10)" json:"recurrence"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque identifier to new tasks.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsCompleted reports whether the task has been marked done.
func (t Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
