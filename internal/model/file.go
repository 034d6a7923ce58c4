package model

import "time"

// Folder 项目文件夹
type Folder struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"projectId"`
	ParentID  *uint64   `gorm:"index" json:"parentId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Folder) TableName() string { return "folders" }

// File 文件主表，CurrentVersion 指向最新版本号
type File struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID      uint64    `gorm:"not null;index" json:"projectId"`
	FolderID       *uint64   `gorm:"index" json:"folderId"`
	UploaderID     uint64    `gorm:"not null" json:"uploaderId"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	MimeType       string    `gorm:"type:varchar(100)" json:"mimeType"`
	Size           int64     `gorm:"not null;default:0" json:"size"`
	CurrentVersion int       `gorm:"not null;default:1" json:"currentVersion"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (File) TableName() string { return "files" }

// FileVersion 文件历史版本，ObjectKey 为 MinIO 对象名
type FileVersion struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID     uint64    `gorm:"index:idx_file_version,unique" json:"fileId"`
	Version    int       `gorm:"index:idx_file_version,unique" json:"version"`
	ObjectKey  string    `gorm:"type:varchar(255);not null" json:"-"`
	Size       int64     `gorm:"not null;default:0" json:"size"`
	UploaderID uint64    `gorm:"not null" json:"uploaderId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (FileVersion) TableName() string { return "file_versions" }
