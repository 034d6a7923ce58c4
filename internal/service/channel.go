package service

import (
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"strconv"
)

// ResolveChannel 消息到主频道的路由。
// 优先级固定：话题回复 > 工作区 > 项目 > 群会话 > 私聊。
// 私聊没有独立频道，统一路由到接收者的个人频道。
func ResolveChannel(msg *model.Message) string {
	switch {
	case msg.ParentID != nil:
		return consts.ChannelThreadKey + strconv.FormatUint(*msg.ParentID, 10)
	case msg.WorkspaceID != nil:
		return consts.ChannelWorkspaceKey + strconv.FormatUint(*msg.WorkspaceID, 10)
	case msg.ProjectID != nil:
		return consts.ChannelProjectKey + strconv.FormatUint(*msg.ProjectID, 10)
	case msg.ConversationID != nil:
		return consts.ChannelConversationKey + strconv.FormatUint(*msg.ConversationID, 10)
	case msg.ReceiverID != nil:
		return consts.ChannelUserKey + strconv.FormatUint(*msg.ReceiverID, 10)
	default:
		return ""
	}
}

// PersonalChannel 用户个人频道，回执与通知的落点
func PersonalChannel(userID uint64) string {
	return consts.ChannelUserKey + strconv.FormatUint(userID, 10)
}
