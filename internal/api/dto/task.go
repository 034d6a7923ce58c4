package dto

type CreateTaskDTO struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     string   `json:"due_date"`
	AssigneeID  uint64   `json:"assignee_id"`
	TagIDs      []uint64 `json:"tag_ids"`
}

type UpdateTaskDTO struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Status      *string  `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *string  `json:"due_date"`
	AssigneeID  *uint64  `json:"assignee_id"`
	TagIDs      []uint64 `json:"tag_ids"`
}

type TaskDTO struct {
	ID          uint64    `json:"id"`
	ProjectID   uint64    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date,omitempty"`
	AssigneeID  uint64    `json:"assignee_id,omitempty"`
	CreatorID   uint64    `json:"creator_id"`
	Tags        []*TagDTO `json:"tags"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type TaskListQueryDTO struct {
	Status     string `form:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority   string `form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID uint64 `form:"assignee_id"`
	TagID      uint64 `form:"tag_id"`
}

type CreateSubtaskDTO struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type UpdateSubtaskDTO struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	IsDone   *bool   `json:"is_done"`
	Position *int    `json:"position"`
}

type SubtaskDTO struct {
	ID       uint64 `json:"id"`
	TaskID   uint64 `json:"task_id"`
	Title    string `json:"title"`
	IsDone   bool   `json:"is_done"`
	Position int    `json:"position"`
}

type CreateCommentDTO struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type CommentDTO struct {
	ID        uint64 `json:"id"`
	TaskID    uint64 `json:"task_id"`
	AuthorID  uint64 `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
