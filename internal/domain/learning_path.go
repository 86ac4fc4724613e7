package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Learning-path record statuses.
const (
	PathStatusAwaitingAnswer = "awaiting_answer"
	PathStatusCompleted      = "completed"
	PathStatusFailed         = "failed"
)

// LearningPathRecord is the relational bookkeeping row for one planned path.
// The conversational transcript lives in the workflow checkpoint and the
// concept graph in the KG store; this row correlates them by thread id and
// tracks ownership and status.
type LearningPathRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID string    `gorm:"column:thread_id;not null;uniqueIndex" json:"thread_id"`

	OwnerUserKey string `gorm:"column:owner_user_key;not null;index" json:"owner_user_key"`

	Topic  string `gorm:"column:topic;not null" json:"topic"`
	Goal   string `gorm:"column:goal;not null;default:''" json:"goal,omitempty"`
	Status string `gorm:"column:status;not null;index" json:"status"`

	// GraphState caches the completed path's exchange-format export.
	GraphState datatypes.JSON `gorm:"column:graph_state" json:"graph_state,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPathRecord) TableName() string { return "learning_path" }
