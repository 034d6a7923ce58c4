package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileService 文件服务接口定义
type FileService interface {
	CreateFolder(ctx context.Context, userID, projectID uint64, req *dto.CreateFolderDTO) (*dto.FolderDTO, error)
	GetFolders(ctx context.Context, userID, projectID uint64, parentID *uint64) ([]*dto.FolderDTO, error)
	DeleteFolder(ctx context.Context, userID, projectID, folderID uint64) error

	UploadFile(ctx context.Context, userID, projectID uint64, folderID *uint64, name, mimeType string, size int64, reader io.Reader) (*dto.FileDTO, error)
	UploadVersion(ctx context.Context, userID, fileID uint64, mimeType string, size int64, reader io.Reader) (*dto.FileDTO, error)
	GetFiles(ctx context.Context, userID, projectID uint64, folderID *uint64) ([]*dto.FileDTO, error)
	GetVersions(ctx context.Context, userID, fileID uint64) ([]*dto.FileVersionDTO, error)
	RestoreVersion(ctx context.Context, userID, fileID uint64, version int) (*dto.FileDTO, error)
	MoveFile(ctx context.Context, userID, fileID uint64, folderID *uint64) error
	DeleteFile(ctx context.Context, userID, fileID uint64) error
}

type fileServiceImpl struct {
	guard    Guard
	fileRepo repository.FileRepo
}

func NewFileService(guard Guard, fileRepo repository.FileRepo) FileService {
	return &fileServiceImpl{
		guard:    guard,
		fileRepo: fileRepo,
	}
}

func (s *fileServiceImpl) CreateFolder(ctx context.Context, userID, projectID uint64, req *dto.CreateFolderDTO) (*dto.FolderDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.fileRepo.GetFolderByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, err
		}
		if parent.ProjectID != projectID {
			return nil, ErrParamInvalid
		}
	}

	folder := &model.Folder{
		ProjectID: projectID,
		ParentID:  req.ParentID,
		Name:      req.Name,
	}
	if err := s.fileRepo.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return toFolderDTO(folder), nil
}

func (s *fileServiceImpl) GetFolders(ctx context.Context, userID, projectID uint64, parentID *uint64) ([]*dto.FolderDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	folders, err := s.fileRepo.GetFolders(ctx, projectID, parentID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FolderDTO, 0, len(folders))
	for _, folder := range folders {
		res = append(res, toFolderDTO(folder))
	}
	return res, nil
}

// DeleteFolder 仅允许删除空目录
func (s *fileServiceImpl) DeleteFolder(ctx context.Context, userID, projectID, folderID uint64) error {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return err
	}

	folder, err := s.fileRepo.GetFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFolderNotFound
		}
		return err
	}
	if folder.ProjectID != projectID {
		return ErrParamInvalid
	}

	children, err := s.fileRepo.CountFolderChildren(ctx, folderID)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrParamInvalid
	}

	return s.fileRepo.DeleteFolder(ctx, folderID)
}

func (s *fileServiceImpl) UploadFile(ctx context.Context, userID, projectID uint64, folderID *uint64, name, mimeType string, size int64, reader io.Reader) (*dto.FileDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if name == "" || size <= 0 {
		return nil, ErrParamInvalid
	}

	if folderID != nil {
		folder, err := s.fileRepo.GetFolderByID(ctx, *folderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, err
		}
		if folder.ProjectID != projectID {
			return nil, ErrParamInvalid
		}
	}

	objectKey := s.newObjectKey(projectID, name)
	if _, err := minio.UploadFile(ctx, objectKey, reader, size, mimeType); err != nil {
		return nil, err
	}

	file := &model.File{
		ProjectID:  projectID,
		FolderID:   folderID,
		UploaderID: userID,
		Name:       name,
		MimeType:   mimeType,
		Size:       size,
	}
	version := &model.FileVersion{
		ObjectKey:  objectKey,
		Size:       size,
		UploaderID: userID,
	}
	if err := s.fileRepo.CreateFileWithVersion(ctx, file, version); err != nil {
		// 数据库失败时回收已上传的对象
		if cleanErr := minio.DeleteFile(ctx, objectKey); cleanErr != nil {
			log.Error("Failed to clean orphan object", "object", objectKey, "err", cleanErr)
		}
		return nil, err
	}

	return s.toFileDTO(file, objectKey), nil
}

// UploadVersion 上传新版本，版本号单调递增
func (s *fileServiceImpl) UploadVersion(ctx context.Context, userID, fileID uint64, mimeType string, size int64, reader io.Reader) (*dto.FileDTO, error) {
	file, err := s.getAccessibleFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, ErrParamInvalid
	}

	objectKey := s.newObjectKey(file.ProjectID, file.Name)
	if _, err = minio.UploadFile(ctx, objectKey, reader, size, mimeType); err != nil {
		return nil, err
	}

	version := &model.FileVersion{
		ObjectKey:  objectKey,
		Size:       size,
		UploaderID: userID,
	}
	if err = s.fileRepo.AddVersion(ctx, file, version); err != nil {
		if cleanErr := minio.DeleteFile(ctx, objectKey); cleanErr != nil {
			log.Error("Failed to clean orphan object", "object", objectKey, "err", cleanErr)
		}
		return nil, err
	}

	file.CurrentVersion = version.Version
	file.Size = size
	_ = s.fileRepo.UpdateFile(ctx, file.ID, map[string]interface{}{"size": size, "mime_type": mimeType})

	return s.toFileDTO(file, objectKey), nil
}

func (s *fileServiceImpl) GetFiles(ctx context.Context, userID, projectID uint64, folderID *uint64) ([]*dto.FileDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.GetFiles(ctx, projectID, folderID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FileDTO, 0, len(files))
	for _, file := range files {
		version, err := s.fileRepo.GetVersion(ctx, file.ID, file.CurrentVersion)
		if err != nil {
			return nil, err
		}
		res = append(res, s.toFileDTO(file, version.ObjectKey))
	}
	return res, nil
}

func (s *fileServiceImpl) GetVersions(ctx context.Context, userID, fileID uint64) ([]*dto.FileVersionDTO, error) {
	if _, err := s.getAccessibleFile(ctx, userID, fileID); err != nil {
		return nil, err
	}

	versions, err := s.fileRepo.GetVersionsByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FileVersionDTO, 0, len(versions))
	for _, v := range versions {
		res = append(res, &dto.FileVersionDTO{
			Version:    v.Version,
			Size:       v.Size,
			UploaderID: v.UploaderID,
			URL:        minio.GetPublicURL(v.ObjectKey),
			CreatedAt:  v.CreatedAt.Format(timeLayout),
		})
	}
	return res, nil
}

// RestoreVersion 回滚到历史版本。不回退版本号，而是追加一个指向
// 历史对象的新版本，保留完整版本链。
func (s *fileServiceImpl) RestoreVersion(ctx context.Context, userID, fileID uint64, version int) (*dto.FileDTO, error) {
	file, err := s.getAccessibleFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if version == file.CurrentVersion {
		return nil, ErrParamInvalid
	}

	old, err := s.fileRepo.GetVersion(ctx, fileID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileVersionNotFound
		}
		return nil, err
	}

	restored := &model.FileVersion{
		ObjectKey:  old.ObjectKey,
		Size:       old.Size,
		UploaderID: userID,
	}
	if err = s.fileRepo.AddVersion(ctx, file, restored); err != nil {
		return nil, err
	}

	file.CurrentVersion = restored.Version
	file.Size = old.Size
	_ = s.fileRepo.UpdateFile(ctx, file.ID, map[string]interface{}{"size": old.Size})

	return s.toFileDTO(file, old.ObjectKey), nil
}

// MoveFile 移动文件到目标文件夹，nil 表示项目根目录
func (s *fileServiceImpl) MoveFile(ctx context.Context, userID, fileID uint64, folderID *uint64) error {
	file, err := s.getAccessibleFile(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if folderID != nil {
		folder, err := s.fileRepo.GetFolderByID(ctx, *folderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFolderNotFound
			}
			return err
		}
		if folder.ProjectID != file.ProjectID {
			return ErrParamInvalid
		}
	}
	return s.fileRepo.UpdateFile(ctx, fileID, map[string]interface{}{"folder_id": folderID})
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, userID, fileID uint64) error {
	if _, err := s.getAccessibleFile(ctx, userID, fileID); err != nil {
		return err
	}

	versions, err := s.fileRepo.DeleteFile(ctx, fileID)
	if err != nil {
		return err
	}

	// 对象清理失败不阻塞删除，孤儿对象留给人工处理
	go func() {
		cleanCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, v := range versions {
			if err := minio.DeleteFile(cleanCtx, v.ObjectKey); err != nil {
				log.Error("Failed to delete object", "object", v.ObjectKey, "err", err)
			}
		}
	}()
	return nil
}

func (s *fileServiceImpl) getAccessibleFile(ctx context.Context, userID, fileID uint64) (*model.File, error) {
	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if _, err = s.guard.AssertProjectMember(ctx, file.ProjectID, userID); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileServiceImpl) newObjectKey(projectID uint64, name string) string {
	return fmt.Sprintf("projects/%d/%s-%s", projectID, uuid.NewString(), name)
}

func (s *fileServiceImpl) toFileDTO(file *model.File, objectKey string) *dto.FileDTO {
	d := &dto.FileDTO{
		ID:             file.ID,
		ProjectID:      file.ProjectID,
		UploaderID:     file.UploaderID,
		Name:           file.Name,
		MimeType:       file.MimeType,
		Size:           file.Size,
		CurrentVersion: file.CurrentVersion,
		URL:            minio.GetPublicURL(objectKey),
		CreatedAt:      file.CreatedAt.Format(timeLayout),
		UpdatedAt:      file.UpdatedAt.Format(timeLayout),
	}
	if file.FolderID != nil {
		d.FolderID = *file.FolderID
	}
	return d
}

func toFolderDTO(folder *model.Folder) *dto.FolderDTO {
	d := &dto.FolderDTO{
		ID:        folder.ID,
		ProjectID: folder.ProjectID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt.Format(timeLayout),
	}
	if folder.ParentID != nil {
		d.ParentID = *folder.ParentID
	}
	return d
}
