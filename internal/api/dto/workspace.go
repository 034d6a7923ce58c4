package dto

type CreateWorkspaceDTO struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
	Slug string `json:"slug" validate:"omitempty,min=1,max=50"`
}

type UpdateWorkspaceDTO struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
}

type WorkspaceDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	OwnerID   uint64 `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

type MemberDTO struct {
	UserID    uint64 `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
	JoinedAt  string `json:"joined_at"`
}

type CreateInviteDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type InviteDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

type AcceptInviteDTO struct {
	Token string `json:"token" validate:"required"`
}

type CreateTagDTO struct {
	Name  string `json:"name" validate:"required,min=1,max=30"`
	Color string `json:"color" validate:"omitempty,max=16"`
}

type TagDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DashboardDTO 工作区概览：成员/项目规模、任务状态分布与最近动态
type DashboardDTO struct {
	MemberCount      int64            `json:"member_count"`
	ProjectCount     int64            `json:"project_count"`
	TaskCounts       map[string]int64 `json:"task_counts"`
	RecentActivities []*ActivityDTO   `json:"recent_activities"`
}
