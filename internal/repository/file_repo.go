package repository

import (
	"Teamflow/internal/model"
	"context"

	"gorm.io/gorm"
)

type FileRepo interface {
	CreateFolder(ctx context.Context, folder *model.Folder) error
	GetFolderByID(ctx context.Context, id uint64) (*model.Folder, error)
	GetFolders(ctx context.Context, projectID uint64, parentID *uint64) ([]*model.Folder, error)
	DeleteFolder(ctx context.Context, id uint64) error
	CountFolderChildren(ctx context.Context, id uint64) (int64, error)

	CreateFileWithVersion(ctx context.Context, file *model.File, version *model.FileVersion) error
	AddVersion(ctx context.Context, file *model.File, version *model.FileVersion) error
	GetFileByID(ctx context.Context, id uint64) (*model.File, error)
	GetFiles(ctx context.Context, projectID uint64, folderID *uint64) ([]*model.File, error)
	UpdateFile(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteFile(ctx context.Context, id uint64) ([]*model.FileVersion, error)

	GetVersion(ctx context.Context, fileID uint64, version int) (*model.FileVersion, error)
	GetVersionsByFileID(ctx context.Context, fileID uint64) ([]*model.FileVersion, error)
}

type fileRepoImpl struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) FileRepo {
	return &fileRepoImpl{db: db}
}

func (s *fileRepoImpl) CreateFolder(ctx context.Context, folder *model.Folder) error {
	return s.db.WithContext(ctx).Create(folder).Error
}

func (s *fileRepoImpl) GetFolderByID(ctx context.Context, id uint64) (*model.Folder, error) {
	var folder model.Folder
	err := s.db.WithContext(ctx).First(&folder, id).Error
	return &folder, err
}

func (s *fileRepoImpl) GetFolders(ctx context.Context, projectID uint64, parentID *uint64) ([]*model.Folder, error) {
	query := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var folders []*model.Folder
	err := query.Order("name ASC").Find(&folders).Error
	return folders, err
}

func (s *fileRepoImpl) DeleteFolder(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Folder{}, id).Error
}

// CountFolderChildren 子目录与文件都计入，非空目录不允许删除
func (s *fileRepoImpl) CountFolderChildren(ctx context.Context, id uint64) (int64, error) {
	var folders, files int64
	if err := s.db.WithContext(ctx).Model(&model.Folder{}).
		Where("parent_id = ?", id).Count(&folders).Error; err != nil {
		return 0, err
	}
	if err := s.db.WithContext(ctx).Model(&model.File{}).
		Where("folder_id = ?", id).Count(&files).Error; err != nil {
		return 0, err
	}
	return folders + files, nil
}

func (s *fileRepoImpl) CreateFileWithVersion(ctx context.Context, file *model.File, version *model.FileVersion) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		file.CurrentVersion = 1
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		version.FileID = file.ID
		version.Version = 1
		return tx.Create(version).Error
	})
}

// AddVersion 追加新版本并推进文件的 current_version
func (s *fileRepoImpl) AddVersion(ctx context.Context, file *model.File, version *model.FileVersion) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version.FileID = file.ID
		version.Version = file.CurrentVersion + 1
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		return tx.Model(&model.File{}).
			Where("id = ?", file.ID).
			Update("current_version", version.Version).Error
	})
}

func (s *fileRepoImpl) GetFileByID(ctx context.Context, id uint64) (*model.File, error) {
	var file model.File
	err := s.db.WithContext(ctx).First(&file, id).Error
	return &file, err
}

func (s *fileRepoImpl) GetFiles(ctx context.Context, projectID uint64, folderID *uint64) ([]*model.File, error) {
	query := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	} else {
		query = query.Where("folder_id IS NULL")
	}

	var files []*model.File
	err := query.Order("name ASC").Find(&files).Error
	return files, err
}

func (s *fileRepoImpl) UpdateFile(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.File{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteFile 删除文件与全部版本记录，返回版本列表供调用方清理对象存储
func (s *fileRepoImpl) DeleteFile(ctx context.Context, id uint64) ([]*model.FileVersion, error) {
	var versions []*model.FileVersion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Find(&versions).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&model.FileVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.File{}, id).Error
	})
	return versions, err
}

func (s *fileRepoImpl) GetVersion(ctx context.Context, fileID uint64, version int) (*model.FileVersion, error) {
	var fv model.FileVersion
	err := s.db.WithContext(ctx).
		Where("file_id = ? AND version = ?", fileID, version).
		First(&fv).Error
	return &fv, err
}

func (s *fileRepoImpl) GetVersionsByFileID(ctx context.Context, fileID uint64) ([]*model.FileVersion, error) {
	var versions []*model.FileVersion
	err := s.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}
