package handler

import (
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/security"
	"Teamflow/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand 客户端指令，目前仅支持话题频道的动态订阅
type wsCommand struct {
	Op      string `json:"op"`
	Channel string `json:"channel"`
}

type WsHandler struct {
	workspaceSvc    service.WorkspaceService
	projectSvc      service.ProjectService
	conversationSvc service.ConversationService
}

func NewWsHandler(workspaceSvc service.WorkspaceService, projectSvc service.ProjectService, conversationSvc service.ConversationService) *WsHandler {
	return &WsHandler{
		workspaceSvc:    workspaceSvc,
		projectSvc:      projectSvc,
		conversationSvc: conversationSvc,
	}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 收集该用户应订阅的全部频道
	channels, err := s.collectChannels(c.Request.Context(), userID)
	if err != nil {
		log.Error("收集订阅频道失败", "userID", userID, "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 订阅 Redis 总线
	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})

	// 读循环：处理话题订阅指令，连接断开时退出
	go func() {
		defer close(stopChan)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd wsCommand
			if err = json.Unmarshal(data, &cmd); err != nil {
				continue
			}
			// 仅放行话题频道，其余频道由成员关系决定
			if !strings.HasPrefix(cmd.Channel, consts.ChannelThreadKey) {
				continue
			}
			switch cmd.Op {
			case "subscribe":
				_ = pubsub.Subscribe(context.Background(), cmd.Channel)
			case "unsubscribe":
				_ = pubsub.Unsubscribe(context.Background(), cmd.Channel)
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err = conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}

// collectChannels 个人频道 + 工作区 + 所在项目 + 会话
func (s *WsHandler) collectChannels(ctx context.Context, userID uint64) ([]string, error) {
	channels := []string{consts.ChannelUserKey + strconv.FormatUint(userID, 10)}

	workspaces, err := s.workspaceSvc.GetMyWorkspaces(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, ws := range workspaces {
		channels = append(channels, consts.ChannelWorkspaceKey+strconv.FormatUint(ws.ID, 10))
		projects, err := s.projectSvc.GetProjects(ctx, userID, ws.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			channels = append(channels, consts.ChannelProjectKey+strconv.FormatUint(p.ID, 10))
		}
	}

	conversations, err := s.conversationSvc.GetMyConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, conv := range conversations {
		channels = append(channels, consts.ChannelConversationKey+strconv.FormatUint(conv.ID, 10))
	}
	return channels, nil
}
