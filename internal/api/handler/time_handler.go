package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeHandler struct {
	timeSvc service.TimeService
}

func NewTimeHandler(timeSvc service.TimeService) *TimeHandler {
	return &TimeHandler{timeSvc: timeSvc}
}

func (s *TimeHandler) CreateEntry(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateTimeEntryDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	entry, err := s.timeSvc.CreateEntry(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (s *TimeHandler) GetTaskEntries(c *gin.Context) {
	userID := c.GetUint64("user_id")
	entries, err := s.timeSvc.GetTaskEntries(c.Request.Context(), userID, pathID(c, "task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// GetMyEntries 查询本人工时，from/to 为 RFC3339 格式，可省略
func (s *TimeHandler) GetMyEntries(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		to = t
	}
	entries, err := s.timeSvc.GetMyEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *TimeHandler) DeleteEntry(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.timeSvc.DeleteEntry(c.Request.Context(), userID, pathID(c, "entry_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TimeHandler) GetTaskSummary(c *gin.Context) {
	userID := c.GetUint64("user_id")
	summary, err := s.timeSvc.GetTaskSummary(c.Request.Context(), userID, pathID(c, "task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (s *TimeHandler) StartTimer(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.StartTimerDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	timer, err := s.timeSvc.StartTimer(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, timer)
}

func (s *TimeHandler) StopTimer(c *gin.Context) {
	userID := c.GetUint64("user_id")
	entry, err := s.timeSvc.StopTimer(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entry)
}

func (s *TimeHandler) GetTimer(c *gin.Context) {
	userID := c.GetUint64("user_id")
	timer, err := s.timeSvc.GetTimer(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, timer)
}
