package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

func (s *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.SendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := s.messageSvc.SendMessage(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *MessageHandler) GetHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.HistoryQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	messages, err := s.messageSvc.GetHistory(c.Request.Context(), userID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

// MarkDelivered 送达确认，由接收端收到推送后上报
func (s *MessageHandler) MarkDelivered(c *gin.Context) {
	userID := c.GetUint64("user_id")
	messageID := pathID(c, "message_id")
	if messageID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	status, err := s.messageSvc.MarkDelivered(c.Request.Context(), userID, messageID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// MarkRead 已读上报，返回实际生效的读取水位
func (s *MessageHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.MarkReadReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	receipt, err := s.messageSvc.MarkRead(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, receipt)
}

func (s *MessageHandler) ToggleReaction(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.ToggleReactionReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	reaction, err := s.messageSvc.ToggleReaction(c.Request.Context(), userID, pathID(c, "message_id"), req.Emoji)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reaction)
}

func (s *MessageHandler) TogglePin(c *gin.Context) {
	userID := c.GetUint64("user_id")
	msg, err := s.messageSvc.TogglePin(c.Request.Context(), userID, pathID(c, "message_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}
