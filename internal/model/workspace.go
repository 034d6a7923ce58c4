package model

import "time"

// Workspace 工作区主表
type Workspace struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(50);uniqueIndex" json:"slug"`
	OwnerID   uint64    `gorm:"not null;index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Workspace) TableName() string { return "workspaces" }

// WorkspaceMember 工作区成员表
type WorkspaceMember struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID uint64    `gorm:"index:idx_ws_user,unique" json:"workspaceId"`
	UserID      uint64    `gorm:"index:idx_ws_user,unique;index" json:"userId"`
	Role        string    `gorm:"type:varchar(16);not null;default:MEMBER" json:"role"` // OWNER / MEMBER
	JoinedAt    time.Time `json:"joinedAt"`
}

func (WorkspaceMember) TableName() string { return "workspace_members" }

// WorkspaceInvite 工作区邀请表
type WorkspaceInvite struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID uint64     `gorm:"index" json:"workspaceId"`
	Email       string     `gorm:"type:varchar(255);index" json:"email"`
	Role        string     `gorm:"type:varchar(16);not null;default:MEMBER" json:"role"`
	Token       string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	InviterID   uint64     `gorm:"not null" json:"inviterId"`
	ExpiresAt   time.Time  `gorm:"index" json:"expiresAt"`
	AcceptedAt  *time.Time `json:"acceptedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (WorkspaceInvite) TableName() string { return "workspace_invites" }
