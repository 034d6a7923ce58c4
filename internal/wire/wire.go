package wire

import (
	"Teamflow/internal/api"
	"Teamflow/internal/api/config"
	"Teamflow/internal/api/handler"
	"Teamflow/internal/job"
	"Teamflow/internal/pkg/cron"
	"Teamflow/internal/pkg/es"
	"Teamflow/internal/pkg/kafka"
	"Teamflow/internal/pkg/mail"
	pkgmongo "Teamflow/internal/pkg/mongo"
	"Teamflow/internal/repository"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// MySQL 仓储
	userRepo := repository.NewUserRepo(db)
	workspaceRepo := repository.NewWorkspaceRepo(db)
	projectRepo := repository.NewProjectRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	timeRepo := repository.NewTimeRepo(db)
	fileRepo := repository.NewFileRepo(db)
	conversationRepo := repository.NewConversationRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	// Mongo 仓储
	notificationRepo := pkgmongo.NewNotificationRepo(mongoDB)
	activityRepo := pkgmongo.NewActivityRepo(mongoDB)

	// ES 仓储
	taskESRepo := es.NewTaskRepo(es.Client)
	messageESRepo := es.NewMessageRepo(es.Client)

	mailClient := mail.NewClient()

	// 服务层
	guard := service.NewGuard(workspaceRepo, projectRepo, conversationRepo)
	userService := service.NewUserService(userRepo)
	workspaceService := service.NewWorkspaceService(guard, workspaceRepo, userRepo, projectRepo, taskRepo, activityRepo, mailClient)
	projectService := service.NewProjectService(guard, projectRepo, activityRepo)
	taskService := service.NewTaskService(guard, taskRepo, workspaceRepo)
	timeService := service.NewTimeService(guard, timeRepo, taskRepo)
	fileService := service.NewFileService(guard, fileRepo)
	conversationService := service.NewConversationService(guard, conversationRepo, userRepo)
	messageService := service.NewMessageService(guard, messageRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	searchService := service.NewSearchService(guard, taskESRepo, messageESRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		WorkspaceHandler:    handler.NewWorkspaceHandler(workspaceService),
		ProjectHandler:      handler.NewProjectHandler(projectService),
		TaskHandler:         handler.NewTaskHandler(taskService),
		TimeHandler:         handler.NewTimeHandler(timeService),
		FileHandler:         handler.NewFileHandler(fileService),
		MessageHandler:      handler.NewMessageHandler(messageService),
		ConversationHandler: handler.NewConversationHandler(conversationService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		SearchHandler:       handler.NewSearchHandler(searchService),
		WSHandler:           handler.NewWsHandler(workspaceService, projectService, conversationService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notificationRepo, activityRepo,
		taskESRepo, messageESRepo, taskRepo, messageRepo, userRepo, workspaceRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewTimerSweepJob(timeRepo),
		job.NewInviteCleanupJob(workspaceRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
