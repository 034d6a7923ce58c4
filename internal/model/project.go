package model

import "time"

// 项目状态
const (
	ProjectStatusActive   = "ACTIVE"
	ProjectStatusArchived = "ARCHIVED"
)

// Project 项目主表
type Project struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID uint64    `gorm:"not null;index" json:"workspaceId"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(16)" json:"color"`
	Status      string    `gorm:"type:varchar(16);not null;default:ACTIVE" json:"status"`
	CreatorID   uint64    `gorm:"not null" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

// ProjectMember 项目成员表
type ProjectMember struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint64    `gorm:"index:idx_proj_user,unique" json:"projectId"`
	UserID    uint64    `gorm:"index:idx_proj_user,unique;index" json:"userId"`
	Role      string    `gorm:"type:varchar(16);not null;default:MEMBER" json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func (ProjectMember) TableName() string { return "project_members" }

// Milestone 项目里程碑
type Milestone struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint64     `gorm:"not null;index" json:"projectId"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	DueDate   *time.Time `json:"dueDate"`
	IsDone    bool       `gorm:"not null;default:0" json:"isDone"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Milestone) TableName() string { return "milestones" }
