package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc service.SearchService
}

func NewSearchHandler(searchSvc service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

func (s *SearchHandler) SearchTasks(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.searchSvc.SearchTasks(c.Request.Context(), userID, pathID(c, "workspace_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *SearchHandler) SearchMessages(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.SearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.searchSvc.SearchMessages(c.Request.Context(), userID, pathID(c, "workspace_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *SearchHandler) GetTaskSuggestions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	suggestions, err := s.searchSvc.GetTaskSuggestions(c.Request.Context(), userID, pathID(c, "workspace_id"), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, suggestions)
}
