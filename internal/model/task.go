package model

import "time"

// 任务状态 / 优先级
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"

	TaskPriorityLow    = "LOW"
	TaskPriorityMedium = "MEDIUM"
	TaskPriorityHigh   = "HIGH"
	TaskPriorityUrgent = "URGENT"
)

// Task 任务主表
type Task struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   uint64     `gorm:"not null;index" json:"projectId"`
	Title       string     `gorm:"type:varchar(500);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(16);not null;default:TODO;index" json:"status"`
	Priority    string     `gorm:"type:varchar(16);not null;default:MEDIUM" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`
	AssigneeID  *uint64    `gorm:"index" json:"assigneeId"`
	CreatorID   uint64     `gorm:"not null" json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// Subtask 子任务表
type Subtask struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"taskId"`
	Title     string    `gorm:"type:varchar(500);not null" json:"title"`
	IsDone    bool      `gorm:"not null;default:0" json:"isDone"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Subtask) TableName() string { return "subtasks" }
