package consts

// 广播频道前缀：一条消息只会被路由到其中一个主频道
const (
	ChannelThreadKey       = "thread:"
	ChannelWorkspaceKey    = "workspace:"
	ChannelProjectKey      = "project:"
	ChannelConversationKey = "conversation:"
	ChannelUserKey         = "user:"
)

const (
	RateLimitKey  = "ratelimit:"
	TimerLockKey  = "timer:lock:"
	WsDirtyKey    = "workspace:dirty"
	UserTokenBan  = "token:ban:"
	InviteMailKey = "invite:mail:"
)
