package dto

type CreateProjectDTO struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateProjectDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
}

type ProjectDTO struct {
	ID          uint64 `json:"id"`
	WorkspaceID uint64 `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatorID   uint64 `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
}

type AddProjectMemberDTO struct {
	UserID uint64 `json:"user_id" validate:"required"`
}

type CreateMilestoneDTO struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	DueDate string `json:"due_date" validate:"required"`
}

type UpdateMilestoneDTO struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	DueDate *string `json:"due_date"`
	IsDone  *bool   `json:"is_done"`
}

type MilestoneDTO struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	Name      string `json:"name"`
	DueDate   string `json:"due_date"`
	IsDone    bool   `json:"is_done"`
}
