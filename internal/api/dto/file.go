package dto

type CreateFolderDTO struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	ParentID *uint64 `json:"parent_id"`
}

type FolderDTO struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	ParentID  uint64 `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type FileDTO struct {
	ID             uint64 `json:"id"`
	ProjectID      uint64 `json:"project_id"`
	FolderID       uint64 `json:"folder_id,omitempty"`
	UploaderID     uint64 `json:"uploader_id"`
	Name           string `json:"name"`
	MimeType       string `json:"mime_type"`
	Size           int64  `json:"size"`
	CurrentVersion int    `json:"current_version"`
	URL            string `json:"url"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// MoveFileDTO 目标文件夹，空值表示移到项目根目录
type MoveFileDTO struct {
	FolderID *uint64 `json:"folder_id"`
}

type FileVersionDTO struct {
	Version    int    `json:"version"`
	Size       int64  `json:"size"`
	UploaderID uint64 `json:"uploader_id"`
	URL        string `json:"url"`
	CreatedAt  string `json:"created_at"`
}
