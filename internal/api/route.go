package api

import (
	"Teamflow/internal/api/middleware"
	"Teamflow/internal/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口，带限流防爆破
			openGroup := userGroup.Group("")
			openGroup.Use(middleware.RateLimitMiddleware(30, time.Minute))
			{
				openGroup.POST("/register", group.UserHandler.Register)
				openGroup.POST("/login", group.UserHandler.Login)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetMe)
				authGroup.GET("/:user_id", group.UserHandler.GetUser)
				authGroup.PUT("/info", group.UserHandler.UpdateProfile)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.POST("/avatar", group.UserHandler.UploadAvatar)
			}
		}

		wsGroup := apiGroup.Group("/workspaces")
		wsGroup.Use(middleware.AuthMiddleware())
		{
			wsGroup.POST("", group.WorkspaceHandler.CreateWorkspace)
			wsGroup.GET("", group.WorkspaceHandler.GetMyWorkspaces)
			wsGroup.GET("/:workspace_id", group.WorkspaceHandler.GetWorkspace)
			wsGroup.GET("/slug/:slug", group.WorkspaceHandler.GetWorkspaceBySlug)
			wsGroup.PUT("/:workspace_id", group.WorkspaceHandler.UpdateWorkspace)
			wsGroup.DELETE("/:workspace_id", group.WorkspaceHandler.DeleteWorkspace)

			wsGroup.GET("/:workspace_id/members", group.WorkspaceHandler.GetMembers)
			wsGroup.DELETE("/:workspace_id/members/:target_id", group.WorkspaceHandler.RemoveMember)

			wsGroup.POST("/:workspace_id/invites", group.WorkspaceHandler.CreateInvite)
			wsGroup.GET("/:workspace_id/invites", group.WorkspaceHandler.GetInvites)

			wsGroup.POST("/:workspace_id/tags", group.WorkspaceHandler.CreateTag)
			wsGroup.GET("/:workspace_id/tags", group.WorkspaceHandler.GetTags)
			wsGroup.DELETE("/:workspace_id/tags/:tag_id", group.WorkspaceHandler.DeleteTag)

			wsGroup.GET("/:workspace_id/activities", group.WorkspaceHandler.GetActivities)
			wsGroup.GET("/:workspace_id/dashboard", group.WorkspaceHandler.GetDashboard)
			wsGroup.GET("/:workspace_id/tasks/mine", group.TaskHandler.GetMyTasks)

			wsGroup.POST("/:workspace_id/projects", group.ProjectHandler.CreateProject)
			wsGroup.GET("/:workspace_id/projects", group.ProjectHandler.GetProjects)

			wsGroup.GET("/:workspace_id/search/tasks", group.SearchHandler.SearchTasks)
			wsGroup.GET("/:workspace_id/search/messages", group.SearchHandler.SearchMessages)
			wsGroup.GET("/:workspace_id/search/suggestions", group.SearchHandler.GetTaskSuggestions)
		}

		inviteGroup := apiGroup.Group("/invites")
		inviteGroup.Use(middleware.AuthMiddleware())
		{
			inviteGroup.POST("/accept", group.WorkspaceHandler.AcceptInvite)
		}

		projectGroup := apiGroup.Group("/projects")
		projectGroup.Use(middleware.AuthMiddleware())
		{
			projectGroup.GET("/:project_id", group.ProjectHandler.GetProject)
			projectGroup.PUT("/:project_id", group.ProjectHandler.UpdateProject)
			projectGroup.DELETE("/:project_id", group.ProjectHandler.DeleteProject)

			projectGroup.POST("/:project_id/members", group.ProjectHandler.AddMember)
			projectGroup.DELETE("/:project_id/members/:target_id", group.ProjectHandler.RemoveMember)

			projectGroup.POST("/:project_id/milestones", group.ProjectHandler.CreateMilestone)
			projectGroup.GET("/:project_id/milestones", group.ProjectHandler.GetMilestones)
			projectGroup.PUT("/:project_id/milestones/:milestone_id", group.ProjectHandler.UpdateMilestone)
			projectGroup.DELETE("/:project_id/milestones/:milestone_id", group.ProjectHandler.DeleteMilestone)

			projectGroup.GET("/:project_id/activities", group.ProjectHandler.GetActivities)

			projectGroup.POST("/:project_id/tasks", group.TaskHandler.CreateTask)
			projectGroup.GET("/:project_id/tasks", group.TaskHandler.GetTasks)

			projectGroup.POST("/:project_id/folders", group.FileHandler.CreateFolder)
			projectGroup.GET("/:project_id/folders", group.FileHandler.GetFolders)
			projectGroup.DELETE("/:project_id/folders/:folder_id", group.FileHandler.DeleteFolder)

			projectGroup.POST("/:project_id/files", group.FileHandler.UploadFile)
			projectGroup.GET("/:project_id/files", group.FileHandler.GetFiles)
		}

		taskGroup := apiGroup.Group("/tasks")
		taskGroup.Use(middleware.AuthMiddleware())
		{
			taskGroup.GET("/:task_id", group.TaskHandler.GetTask)
			taskGroup.PUT("/:task_id", group.TaskHandler.UpdateTask)
			taskGroup.DELETE("/:task_id", group.TaskHandler.DeleteTask)

			taskGroup.POST("/:task_id/subtasks", group.TaskHandler.CreateSubtask)
			taskGroup.GET("/:task_id/subtasks", group.TaskHandler.GetSubtasks)

			taskGroup.POST("/:task_id/comments", group.TaskHandler.CreateComment)
			taskGroup.GET("/:task_id/comments", group.TaskHandler.GetComments)

			taskGroup.GET("/:task_id/time-entries", group.TimeHandler.GetTaskEntries)
			taskGroup.GET("/:task_id/time-summary", group.TimeHandler.GetTaskSummary)
		}

		subtaskGroup := apiGroup.Group("/subtasks")
		subtaskGroup.Use(middleware.AuthMiddleware())
		{
			subtaskGroup.PUT("/:subtask_id", group.TaskHandler.UpdateSubtask)
			subtaskGroup.DELETE("/:subtask_id", group.TaskHandler.DeleteSubtask)
			subtaskGroup.POST("/:subtask_id/promote", group.TaskHandler.PromoteSubtask)
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(middleware.AuthMiddleware())
		{
			commentGroup.PUT("/:comment_id", group.TaskHandler.UpdateComment)
			commentGroup.DELETE("/:comment_id", group.TaskHandler.DeleteComment)
		}

		timeGroup := apiGroup.Group("/time")
		timeGroup.Use(middleware.AuthMiddleware())
		{
			timeGroup.POST("/entries", group.TimeHandler.CreateEntry)
			timeGroup.GET("/entries", group.TimeHandler.GetMyEntries)
			timeGroup.DELETE("/entries/:entry_id", group.TimeHandler.DeleteEntry)

			timeGroup.POST("/timer/start", group.TimeHandler.StartTimer)
			timeGroup.POST("/timer/stop", group.TimeHandler.StopTimer)
			timeGroup.GET("/timer", group.TimeHandler.GetTimer)
		}

		fileGroup := apiGroup.Group("/files")
		fileGroup.Use(middleware.AuthMiddleware())
		{
			fileGroup.POST("/:file_id/versions", group.FileHandler.UploadVersion)
			fileGroup.GET("/:file_id/versions", group.FileHandler.GetVersions)
			fileGroup.POST("/:file_id/versions/:version/restore", group.FileHandler.RestoreVersion)
			fileGroup.POST("/:file_id/move", group.FileHandler.MoveFile)
			fileGroup.DELETE("/:file_id", group.FileHandler.DeleteFile)
		}

		convGroup := apiGroup.Group("/conversations")
		convGroup.Use(middleware.AuthMiddleware())
		{
			convGroup.POST("", group.ConversationHandler.CreateConversation)
			convGroup.GET("", group.ConversationHandler.GetMyConversations)
			convGroup.GET("/:conversation_id/members", group.ConversationHandler.GetMembers)
			convGroup.POST("/:conversation_id/members", group.ConversationHandler.AddMember)
			convGroup.DELETE("/:conversation_id/members/:target_id", group.ConversationHandler.RemoveMember)
		}

		msgGroup := apiGroup.Group("/messages")
		{
			// WS 握手在 Query 中自带 Token
			msgGroup.GET("/ws", group.WSHandler.Connect)

			authGroup := msgGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.MessageHandler.SendMessage)
				authGroup.GET("/history", group.MessageHandler.GetHistory)
				authGroup.POST("/read", group.MessageHandler.MarkRead)
				authGroup.POST("/:message_id/delivered", group.MessageHandler.MarkDelivered)
				authGroup.POST("/:message_id/reactions", group.MessageHandler.ToggleReaction)
				authGroup.POST("/:message_id/pin", group.MessageHandler.TogglePin)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("", group.NotificationHandler.GetNotifications)
			notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notifyGroup.POST("/:notification_id/read", group.NotificationHandler.MarkAsRead)
			notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllAsRead)
			notifyGroup.DELETE("/:notification_id", group.NotificationHandler.DeleteNotification)
		}
	}

	return r
}
