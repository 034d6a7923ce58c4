package dto

type CreateConversationDTO struct {
	WorkspaceID uint64   `json:"workspace_id" validate:"required"`
	Name        string   `json:"name" validate:"max=255"`
	MemberIDs   []uint64 `json:"member_ids" validate:"required,min=1"`
}

type ConversationDTO struct {
	ID          uint64 `json:"id"`
	WorkspaceID uint64 `json:"workspace_id"`
	Name        string `json:"name"`
	IsGroup     bool   `json:"is_group"`
	CreatorID   uint64 `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
}

type AddConversationMemberDTO struct {
	UserID uint64 `json:"user_id" validate:"required"`
}
