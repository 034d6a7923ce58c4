package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/kafka"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

const defaultHistoryPageSize = 50

// MessageService 消息服务接口定义
type MessageService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetHistory(ctx context.Context, userID uint64, query *dto.HistoryQueryDTO) ([]*dto.MessageDTO, error)
	MarkDelivered(ctx context.Context, userID uint64, messageID uint64) (*dto.MessageStatusDTO, error)
	MarkRead(ctx context.Context, userID uint64, req *dto.MarkReadReq) (*dto.ReadReceiptDTO, error)
	ToggleReaction(ctx context.Context, userID uint64, messageID uint64, emoji string) (*dto.ReactionDTO, error)
	TogglePin(ctx context.Context, userID uint64, messageID uint64) (*dto.MessageDTO, error)
}

type messageServiceImpl struct {
	guard       Guard
	messageRepo repository.MessageRepo
	userRepo    repository.UserRepo
}

func NewMessageService(guard Guard, messageRepo repository.MessageRepo, userRepo repository.UserRepo) MessageService {
	return &messageServiceImpl{
		guard:       guard,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// SendMessage 发送消息。
// 上下文四选一；带 parent_id 时必须与父消息归属同一上下文。
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	contextCount := 0
	for _, id := range []uint64{req.WorkspaceID, req.ProjectID, req.ConversationID, req.ReceiverID} {
		if id > 0 {
			contextCount++
		}
	}
	if contextCount != 1 {
		return nil, ErrContextRequired
	}

	msg := &model.Message{
		SenderID: senderID,
		Content:  req.Content,
		Status:   model.MessageStatusSent,
	}

	switch {
	case req.WorkspaceID > 0:
		if _, err := s.guard.AssertWorkspaceMember(ctx, req.WorkspaceID, senderID); err != nil {
			return nil, err
		}
		msg.WorkspaceID = util.PtrUint64(req.WorkspaceID)
	case req.ProjectID > 0:
		if _, err := s.guard.AssertProjectMember(ctx, req.ProjectID, senderID); err != nil {
			return nil, err
		}
		msg.ProjectID = util.PtrUint64(req.ProjectID)
	case req.ConversationID > 0:
		if _, err := s.guard.AssertConversationMember(ctx, req.ConversationID, senderID); err != nil {
			return nil, err
		}
		msg.ConversationID = util.PtrUint64(req.ConversationID)
	case req.ReceiverID > 0:
		if req.ReceiverID == senderID {
			return nil, ErrParamInvalid
		}
		if _, err := s.userRepo.GetUserByID(ctx, req.ReceiverID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		msg.ReceiverID = util.PtrUint64(req.ReceiverID)
	}

	if req.ParentID > 0 {
		parent, err := s.messageRepo.GetMessage(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMessageNotFound
			}
			return nil, err
		}
		if !sameContext(parent, msg) {
			return nil, ErrParamInvalid
		}
		msg.ParentID = util.PtrUint64(req.ParentID)
	}

	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	messageDTO := toMessageDTO(msg, nil)

	// 广播与事件投递不阻塞发送方
	go s.broadcast(ResolveChannel(msg), consts.EventNewMessage, messageDTO)
	if msg.ReceiverID != nil {
		// 私聊双端回显：发送者的其他在线设备也要看到
		go s.broadcast(PersonalChannel(senderID), consts.EventNewMessage, messageDTO)
	}
	go s.publishSentEvent(msg)

	return messageDTO, nil
}

// GetHistory 拉取历史消息，倒序分页
func (s *messageServiceImpl) GetHistory(ctx context.Context, userID uint64, query *dto.HistoryQueryDTO) ([]*dto.MessageDTO, error) {
	pageSize := query.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = defaultHistoryPageSize
	}

	var (
		messages []*model.Message
		err      error
	)

	switch {
	case query.WorkspaceID > 0:
		if _, err = s.guard.AssertWorkspaceMember(ctx, query.WorkspaceID, userID); err != nil {
			return nil, err
		}
		messages, err = s.messageRepo.GetContextMessages(ctx, "workspace_id", query.WorkspaceID, query.BeforeID, pageSize)
	case query.ProjectID > 0:
		if _, err = s.guard.AssertProjectMember(ctx, query.ProjectID, userID); err != nil {
			return nil, err
		}
		messages, err = s.messageRepo.GetContextMessages(ctx, "project_id", query.ProjectID, query.BeforeID, pageSize)
	case query.ConversationID > 0:
		if _, err = s.guard.AssertConversationMember(ctx, query.ConversationID, userID); err != nil {
			return nil, err
		}
		messages, err = s.messageRepo.GetContextMessages(ctx, "conversation_id", query.ConversationID, query.BeforeID, pageSize)
	case query.PeerID > 0:
		messages, err = s.messageRepo.GetDirectMessages(ctx, userID, query.PeerID, query.BeforeID, pageSize)
	default:
		return nil, ErrContextRequired
	}
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		reactions, err := s.messageRepo.GetReactionsByMessageID(ctx, msg.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, toMessageDTO(msg, reactions))
	}
	return res, nil
}

// MarkDelivered 送达上报。只有 SENT 状态会发生迁移，重复上报返回当前状态快照。
func (s *messageServiceImpl) MarkDelivered(ctx context.Context, userID uint64, messageID uint64) (*dto.MessageStatusDTO, error) {
	msg, err := s.getAccessibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	// 发送者自己的回显不算送达
	if msg.SenderID != userID {
		deliveredAt := time.Now()
		transitioned, err := s.messageRepo.MarkDelivered(ctx, messageID, deliveredAt)
		if err != nil {
			return nil, err
		}
		if transitioned {
			msg.Status = model.MessageStatusDelivered
			msg.DeliveredAt = &deliveredAt

			receipt := &dto.DeliveryReceiptDTO{
				MessageID:   messageID,
				UserID:      userID,
				DeliveredAt: deliveredAt,
			}
			channel := ResolveChannel(msg)
			go s.broadcast(channel, consts.EventMessageDeliver, receipt)
			if sender := PersonalChannel(msg.SenderID); msg.ReceiverID != nil && sender != channel {
				// 私聊回执要落到发送方个人频道
				go s.broadcast(sender, consts.EventMessageDeliver, receipt)
			}
		}
	}

	return &dto.MessageStatusDTO{
		ID:          msg.ID,
		Status:      msg.Status,
		DeliveredAt: msg.DeliveredAt,
	}, nil
}

// MarkRead 已读上报：推进 (用户, 上下文) 的已读水位线。
// 私聊场景同时把消息状态推到 READ，允许跳过 DELIVERED。
func (s *messageServiceImpl) MarkRead(ctx context.Context, userID uint64, req *dto.MarkReadReq) (*dto.ReadReceiptDTO, error) {
	contextCount := 0
	for _, id := range []uint64{req.WorkspaceID, req.ProjectID, req.PeerID} {
		if id > 0 {
			contextCount++
		}
	}
	if contextCount != 1 {
		return nil, ErrContextRequired
	}

	msg, err := s.messageRepo.GetMessage(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	read := &model.MessageRead{
		UserID:     userID,
		MessageID:  req.MessageID,
		LastReadAt: time.Now(),
	}
	advanceStatus := false

	switch {
	case req.WorkspaceID > 0:
		if msg.WorkspaceID == nil || *msg.WorkspaceID != req.WorkspaceID {
			return nil, ErrParamInvalid
		}
		if _, err = s.guard.AssertWorkspaceMember(ctx, req.WorkspaceID, userID); err != nil {
			return nil, err
		}
		read.WorkspaceID = util.PtrUint64(req.WorkspaceID)
	case req.ProjectID > 0:
		if msg.ProjectID == nil || *msg.ProjectID != req.ProjectID {
			return nil, ErrParamInvalid
		}
		if _, err = s.guard.AssertProjectMember(ctx, req.ProjectID, userID); err != nil {
			return nil, err
		}
		read.ProjectID = util.PtrUint64(req.ProjectID)
	case req.PeerID > 0:
		// 私聊收发双方都可上报；只有接收方的上报推进消息状态
		switch {
		case msg.ReceiverID == nil:
			return nil, ErrParamInvalid
		case *msg.ReceiverID == userID && msg.SenderID == req.PeerID:
			advanceStatus = true
		case msg.SenderID == userID && *msg.ReceiverID == req.PeerID:
			// 发送方只记水位线
		default:
			return nil, ErrParamInvalid
		}
		read.ReceiverID = util.PtrUint64(req.PeerID)
	}

	if err = s.messageRepo.MarkRead(ctx, read, advanceStatus); err != nil {
		return nil, err
	}

	receipt := &dto.ReadReceiptDTO{
		UserID:     userID,
		MessageID:  read.MessageID,
		LastReadAt: read.LastReadAt,
	}
	if read.WorkspaceID != nil {
		receipt.WorkspaceID = *read.WorkspaceID
	}
	if read.ProjectID != nil {
		receipt.ProjectID = *read.ProjectID
	}

	channel := ResolveChannel(msg)
	go s.broadcast(channel, consts.EventMessageRead, receipt)
	if peer := PersonalChannel(req.PeerID); msg.ReceiverID != nil && peer != channel {
		// 私聊回执推给对端个人频道
		go s.broadcast(peer, consts.EventMessageRead, receipt)
	}
	return receipt, nil
}

// ToggleReaction 表情回应开关：已存在则取消，否则添加
func (s *messageServiceImpl) ToggleReaction(ctx context.Context, userID uint64, messageID uint64, emoji string) (*dto.ReactionDTO, error) {
	if emoji == "" {
		return nil, ErrParamInvalid
	}

	msg, err := s.getAccessibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	result := &dto.ReactionDTO{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}

	existing, err := s.messageRepo.GetReaction(ctx, messageID, userID, emoji)
	switch {
	case err == nil:
		if err = s.messageRepo.DeleteReaction(ctx, existing.ID); err != nil {
			return nil, err
		}
		result.Added = false
		go s.broadcast(ResolveChannel(msg), consts.EventReactionRemoved, result)
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := &model.Reaction{
			MessageID: messageID,
			UserID:    userID,
			Emoji:     emoji,
		}
		if err = s.messageRepo.CreateReaction(ctx, reaction); err != nil {
			return nil, err
		}
		user, err := s.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.User = toUserDTO(user)
		result.User.AvatarURL = minio.GetPublicURL(user.AvatarURL)
		result.Added = true
		go s.broadcast(ResolveChannel(msg), consts.EventReactionAdded, result)
	default:
		return nil, err
	}

	return result, nil
}

// TogglePin 置顶开关
func (s *messageServiceImpl) TogglePin(ctx context.Context, userID uint64, messageID uint64) (*dto.MessageDTO, error) {
	msg, err := s.getAccessibleMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	msg.IsPinned = !msg.IsPinned
	if err = s.messageRepo.UpdatePinned(ctx, messageID, msg.IsPinned); err != nil {
		return nil, err
	}

	messageDTO := toMessageDTO(msg, nil)
	go s.broadcast(ResolveChannel(msg), consts.EventMessagePinned, messageDTO)
	return messageDTO, nil
}

// getAccessibleMessage 加载消息并校验调用者对其上下文的访问权
func (s *messageServiceImpl) getAccessibleMessage(ctx context.Context, userID uint64, messageID uint64) (*model.Message, error) {
	msg, err := s.messageRepo.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	switch {
	case msg.WorkspaceID != nil:
		_, err = s.guard.AssertWorkspaceMember(ctx, *msg.WorkspaceID, userID)
	case msg.ProjectID != nil:
		_, err = s.guard.AssertProjectMember(ctx, *msg.ProjectID, userID)
	case msg.ConversationID != nil:
		_, err = s.guard.AssertConversationMember(ctx, *msg.ConversationID, userID)
	case msg.ReceiverID != nil:
		if msg.SenderID != userID && *msg.ReceiverID != userID {
			err = ErrNotMember
		}
	default:
		err = ErrContextRequired
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// broadcast 向频道推送事件，失败只记日志
func (s *messageServiceImpl) broadcast(channel string, event string, data any) {
	if channel == "" {
		return
	}

	envelope := &dto.BroadcastEnvelope{Event: event, Data: data}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err = redis.Publish(ctx, channel, payload); err != nil {
		log.Error("Failed to publish broadcast", "channel", channel, "event", event, "err", err)
	}
}

// publishSentEvent 投递领域事件，供搜索索引与通知消费
func (s *messageServiceImpl) publishSentEvent(msg *model.Message) {
	event := &kafka.DomainEvent{
		Type:       consts.DomainEventMessageSent,
		ActorID:    msg.SenderID,
		TargetID:   msg.ID,
		Content:    msg.Content,
		OccurredAt: msg.CreatedAt,
		Payload:    map[string]string{"entity_type": "message"},
	}
	if msg.WorkspaceID != nil {
		event.WorkspaceID = *msg.WorkspaceID
	}
	if msg.ProjectID != nil {
		event.ProjectID = *msg.ProjectID
	}
	if msg.ReceiverID != nil {
		event.ReceiverIDs = []uint64{*msg.ReceiverID}
	}

	if err := kafka.PublishEvent(event); err != nil {
		log.Error("Failed to publish message sent event", "message_id", msg.ID, "err", err)
	}
}

// sameContext 两条消息是否归属同一上下文
func sameContext(a, b *model.Message) bool {
	eq := func(x, y *uint64) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y
	}
	return eq(a.WorkspaceID, b.WorkspaceID) &&
		eq(a.ProjectID, b.ProjectID) &&
		eq(a.ConversationID, b.ConversationID)
}
