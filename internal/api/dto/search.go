package dto

// SearchQueryDTO 工作区内检索请求
type SearchQueryDTO struct {
	Keyword    string `form:"q"`
	ProjectID  uint64 `form:"project_id"`
	Status     string `form:"status"`
	AssigneeID uint64 `form:"assignee_id"`
	Cursor     string `form:"cursor"`
	PageSize   int    `form:"page_size"`
}

type TaskSearchResultDTO struct {
	Items      []*TaskHitDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type TaskHitDTO struct {
	ID           uint64   `json:"id"`
	ProjectID    uint64   `json:"project_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	AssigneeName string   `json:"assignee_name,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type MessageSearchResultDTO struct {
	Items      []*MessageHitDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type MessageHitDTO struct {
	ID             uint64 `json:"id"`
	ProjectID      uint64 `json:"project_id,omitempty"`
	ConversationID uint64 `json:"conversation_id,omitempty"`
	SenderID       uint64 `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}
