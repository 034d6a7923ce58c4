package model

import "time"

// TimeEntry 工时记录表
type TimeEntry struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64     `gorm:"not null;index" json:"userId"`
	TaskID      uint64     `gorm:"not null;index" json:"taskId"`
	Description string     `gorm:"type:varchar(500)" json:"description"`
	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
	DurationSec int64      `gorm:"not null;default:0" json:"durationSec"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (TimeEntry) TableName() string { return "time_entries" }

// Timer 运行中的计时器，每个用户最多一个
type Timer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex" json:"userId"`
	TaskID    uint64    `gorm:"not null;index" json:"taskId"`
	StartedAt time.Time `gorm:"not null" json:"startedAt"`
}

func (Timer) TableName() string { return "timers" }
