package dto

type CreateTimeEntryDTO struct {
	TaskID      uint64 `json:"task_id" validate:"required"`
	StartedAt   string `json:"started_at" validate:"required"`
	DurationSec int64  `json:"duration_sec" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=500"`
}

type TimeEntryDTO struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	TaskID      uint64 `json:"task_id"`
	Description string `json:"description,omitempty"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at,omitempty"`
	DurationSec int64  `json:"duration_sec"`
}

type StartTimerDTO struct {
	TaskID uint64 `json:"task_id" validate:"required"`
}

type TimerDTO struct {
	TaskID    uint64 `json:"task_id"`
	StartedAt string `json:"started_at"`
}

// TaskTimeSummaryDTO 任务累计工时
type TaskTimeSummaryDTO struct {
	TaskID   uint64 `json:"task_id"`
	TotalSec int64  `json:"total_sec"`
}
