package consts

const (
	MimePrefixImage = "image"

	DefaultAvatarURL = "default_avatar.png"
)

// 工作区 / 项目成员角色
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// 广播事件类型
const (
	EventNewMessage      = "new-message"
	EventMessageDeliver  = "message-delivered"
	EventMessageRead     = "message-read"
	EventMessagePinned   = "message-pinned"
	EventReactionAdded   = "reaction-added"
	EventReactionRemoved = "reaction-removed"
	EventNotification    = "notification"
)

// 领域事件类型 (Kafka)
const (
	DomainEventTaskAssigned   = "task.assigned"
	DomainEventTaskUpdated    = "task.updated"
	DomainEventCommentCreated = "comment.created"
	DomainEventInviteCreated  = "invite.created"
	DomainEventMemberJoined   = "member.joined"
	DomainEventMessageSent    = "message.sent"
)
