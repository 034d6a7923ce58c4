package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationSvc service.ConversationService
}

func NewConversationHandler(conversationSvc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationSvc: conversationSvc}
}

func (s *ConversationHandler) CreateConversation(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateConversationDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	conv, err := s.conversationSvc.CreateConversation(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

func (s *ConversationHandler) GetMyConversations(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.conversationSvc.GetMyConversations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *ConversationHandler) GetMembers(c *gin.Context) {
	userID := c.GetUint64("user_id")
	members, err := s.conversationSvc.GetMembers(c.Request.Context(), userID, pathID(c, "conversation_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

func (s *ConversationHandler) AddMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.AddConversationMemberDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.conversationSvc.AddMember(c.Request.Context(), userID, pathID(c, "conversation_id"), req.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) RemoveMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID := pathID(c, "target_id")
	if targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.conversationSvc.RemoveMember(c.Request.Context(), userID, pathID(c, "conversation_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
