package api

import "Teamflow/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	WorkspaceHandler    *handler.WorkspaceHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	TimeHandler         *handler.TimeHandler
	FileHandler         *handler.FileHandler
	MessageHandler      *handler.MessageHandler
	ConversationHandler *handler.ConversationHandler
	NotificationHandler *handler.NotificationHandler
	SearchHandler       *handler.SearchHandler
	WSHandler           *handler.WsHandler
}
