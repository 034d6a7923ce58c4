package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileSvc service.FileService
}

func NewFileHandler(fileSvc service.FileService) *FileHandler {
	return &FileHandler{fileSvc: fileSvc}
}

func (s *FileHandler) CreateFolder(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateFolderDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	folder, err := s.fileSvc.CreateFolder(c.Request.Context(), userID, pathID(c, "project_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, folder)
}

func (s *FileHandler) GetFolders(c *gin.Context) {
	userID := c.GetUint64("user_id")
	folders, err := s.fileSvc.GetFolders(c.Request.Context(), userID, pathID(c, "project_id"), queryID(c, "parent_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, folders)
}

func (s *FileHandler) DeleteFolder(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.fileSvc.DeleteFolder(c.Request.Context(), userID, pathID(c, "project_id"), pathID(c, "folder_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadFile multipart 上传，folder_id 为可选表单字段
func (s *FileHandler) UploadFile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	var folderID *uint64
	if v := c.PostForm("folder_id"); v != "" {
		id := util.StrToUint64(v)
		if id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		folderID = &id
	}

	contentType := file.Header.Get("Content-Type")
	result, err := s.fileSvc.UploadFile(c.Request.Context(), userID, pathID(c, "project_id"),
		folderID, file.Filename, contentType, file.Size, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *FileHandler) UploadVersion(c *gin.Context) {
	userID := c.GetUint64("user_id")
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType := file.Header.Get("Content-Type")
	result, err := s.fileSvc.UploadVersion(c.Request.Context(), userID, pathID(c, "file_id"),
		contentType, file.Size, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *FileHandler) GetFiles(c *gin.Context) {
	userID := c.GetUint64("user_id")
	files, err := s.fileSvc.GetFiles(c.Request.Context(), userID, pathID(c, "project_id"), queryID(c, "folder_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, files)
}

func (s *FileHandler) GetVersions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	versions, err := s.fileSvc.GetVersions(c.Request.Context(), userID, pathID(c, "file_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, versions)
}

// RestoreVersion 回滚到指定历史版本
func (s *FileHandler) RestoreVersion(c *gin.Context) {
	userID := c.GetUint64("user_id")
	version := int(util.StrToUint64(c.Param("version")))
	if version <= 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	file, err := s.fileSvc.RestoreVersion(c.Request.Context(), userID, pathID(c, "file_id"), version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, file)
}

func (s *FileHandler) MoveFile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.MoveFileDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.fileSvc.MoveFile(c.Request.Context(), userID, pathID(c, "file_id"), req.FolderID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FileHandler) DeleteFile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.fileSvc.DeleteFile(c.Request.Context(), userID, pathID(c, "file_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// queryID 解析可选的数字查询参数，缺省返回 nil
func queryID(c *gin.Context, name string) *uint64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	id := util.StrToUint64(v)
	if id == 0 {
		return nil
	}
	return &id
}
