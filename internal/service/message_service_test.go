package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func newTestMessageService(t *testing.T) (MessageService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	initTestRedis(t)

	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		repository.NewProjectRepo(db),
		repository.NewConversationRepo(db),
	)
	svc := NewMessageService(guard, repository.NewMessageRepo(db), repository.NewUserRepo(db))
	return svc, db
}

func TestSendMessageContextExactlyOne(t *testing.T) {
	svc, _ := newTestMessageService(t)
	ctx := context.Background()

	// 无上下文
	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{Content: "hi"})
	if !errors.Is(err, ErrContextRequired) {
		t.Fatalf("无上下文应返回 ErrContextRequired，实际 %v", err)
	}
	// 多个上下文
	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{WorkspaceID: 1, ReceiverID: 2, Content: "hi"})
	if !errors.Is(err, ErrContextRequired) {
		t.Fatalf("多上下文应返回 ErrContextRequired，实际 %v", err)
	}
}

func TestSendMessageRejectsSelfDM(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	sender := seedUser(t, db, "alice")
	_, err := svc.SendMessage(ctx, sender.ID, &dto.SendMessageReq{ReceiverID: sender.ID, Content: "hi"})
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("给自己发私聊应返回 ErrParamInvalid，实际 %v", err)
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	ws := seedWorkspace(t, db, 1)
	_, err := svc.SendMessage(ctx, 99, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "hi"})
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("非成员发消息应返回 ErrNotMember，实际 %v", err)
	}
}

func TestSendDirectMessageAndMarkDelivered(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	sent, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ReceiverID: bob.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送私聊失败: %v", err)
	}
	if sent.Status != model.MessageStatusSent {
		t.Fatalf("新消息状态应为 SENT，实际 %s", sent.Status)
	}

	// 发送者自己的回显不构成送达
	status, err := svc.MarkDelivered(ctx, alice.ID, sent.ID)
	if err != nil {
		t.Fatalf("发送者上报送达应为空操作: %v", err)
	}
	if status.ID != sent.ID || status.Status != model.MessageStatusSent || status.DeliveredAt != nil {
		t.Fatalf("发送者上报后快照不应迁移: %+v", status)
	}
	var msg model.Message
	db.First(&msg, sent.ID)
	if msg.Status != model.MessageStatusSent {
		t.Fatalf("发送者上报后状态不应迁移，实际 %s", msg.Status)
	}

	status, err = svc.MarkDelivered(ctx, bob.ID, sent.ID)
	if err != nil {
		t.Fatalf("接收者上报送达失败: %v", err)
	}
	if status.ID != sent.ID || status.Status != model.MessageStatusDelivered || status.DeliveredAt == nil {
		t.Fatalf("接收者上报后快照应为 DELIVERED: %+v", status)
	}
	db.First(&msg, sent.ID)
	if msg.Status != model.MessageStatusDelivered || msg.DeliveredAt == nil {
		t.Fatalf("接收者上报后应迁移到 DELIVERED: status=%s", msg.Status)
	}

	// 重复上报幂等，返回当前快照
	status, err = svc.MarkDelivered(ctx, bob.ID, sent.ID)
	if err != nil {
		t.Fatalf("重复上报送达失败: %v", err)
	}
	if status.Status != model.MessageStatusDelivered || status.DeliveredAt == nil {
		t.Fatalf("重复上报应返回 DELIVERED 快照: %+v", status)
	}
}

func TestMarkReadDirectMessage(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	sent, err := svc.SendMessage(ctx, alice.ID, &dto.SendMessageReq{ReceiverID: bob.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送私聊失败: %v", err)
	}

	// 发送方可以记自己的阅读水位，但不推进消息状态
	if _, err = svc.MarkRead(ctx, alice.ID, &dto.MarkReadReq{PeerID: bob.ID, MessageID: sent.ID}); err != nil {
		t.Fatalf("发送方上报水位失败: %v", err)
	}
	var msg model.Message
	db.First(&msg, sent.ID)
	if msg.Status != model.MessageStatusSent {
		t.Fatalf("发送方上报不应推进状态，实际 %s", msg.Status)
	}

	// 接收方已读允许跳过 DELIVERED 直达 READ
	receipt, err := svc.MarkRead(ctx, bob.ID, &dto.MarkReadReq{PeerID: alice.ID, MessageID: sent.ID})
	if err != nil {
		t.Fatalf("已读上报失败: %v", err)
	}
	if receipt.UserID != bob.ID || receipt.MessageID != sent.ID {
		t.Fatalf("回执内容不符: %+v", receipt)
	}

	db.First(&msg, sent.ID)
	if msg.Status != model.MessageStatusRead {
		t.Fatalf("私聊已读后状态应为 READ，实际 %s", msg.Status)
	}

	// 私聊之外的第三方不能上报
	carol := seedUser(t, db, "carol")
	if _, err = svc.MarkRead(ctx, carol.ID, &dto.MarkReadReq{PeerID: alice.ID, MessageID: sent.ID}); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("第三方上报私聊已读应被拒绝，实际 %v", err)
	}
}

func TestMarkReadContextExactlyOne(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)

	sent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送工作区消息失败: %v", err)
	}

	// 无上下文
	if _, err = svc.MarkRead(ctx, owner.ID, &dto.MarkReadReq{MessageID: sent.ID}); !errors.Is(err, ErrContextRequired) {
		t.Fatalf("无上下文应返回 ErrContextRequired，实际 %v", err)
	}
	// 多个上下文
	if _, err = svc.MarkRead(ctx, owner.ID, &dto.MarkReadReq{WorkspaceID: ws.ID, PeerID: 2, MessageID: sent.ID}); !errors.Is(err, ErrContextRequired) {
		t.Fatalf("多上下文应返回 ErrContextRequired，实际 %v", err)
	}
}

func TestMarkReadWorkspaceContextMismatch(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)

	sent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送工作区消息失败: %v", err)
	}

	// 上报的上下文必须与消息归属一致
	_, err = svc.MarkRead(ctx, owner.ID, &dto.MarkReadReq{WorkspaceID: ws.ID + 1, MessageID: sent.ID})
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("上下文不匹配应返回 ErrParamInvalid，实际 %v", err)
	}
}

func TestThreadReplyMustShareContext(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	wsA := seedWorkspace(t, db, owner.ID)
	wsB := seedWorkspace(t, db, owner.ID)

	parent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: wsA.ID, Content: "root"})
	if err != nil {
		t.Fatalf("发送父消息失败: %v", err)
	}

	// 跨上下文回复被拒绝
	_, err = svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: wsB.ID, ParentID: parent.ID, Content: "re"})
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("跨上下文回复应返回 ErrParamInvalid，实际 %v", err)
	}

	reply, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: wsA.ID, ParentID: parent.ID, Content: "re"})
	if err != nil {
		t.Fatalf("同上下文回复失败: %v", err)
	}
	if reply.ParentID != parent.ID {
		t.Fatalf("回复应挂在父消息下: %+v", reply)
	}
}

// waitForEvent 在频道上等待指定事件，期间忽略其他推送
func waitForEvent(t *testing.T, sub *goredis.PubSub, event string) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			var envelope dto.BroadcastEnvelope
			if err := json.Unmarshal([]byte(m.Payload), &envelope); err != nil {
				t.Fatalf("解析推送信封失败: %v", err)
			}
			if envelope.Event == event {
				return
			}
		case <-deadline:
			t.Fatalf("频道未收到事件 %s", event)
		}
	}
}

func TestReadReceiptRoutesToThreadChannel(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)

	parent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "root"})
	if err != nil {
		t.Fatalf("发送父消息失败: %v", err)
	}
	reply, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, ParentID: parent.ID, Content: "re"})
	if err != nil {
		t.Fatalf("发送回复失败: %v", err)
	}

	// 话题内消息的回执优先落在话题频道，而不是工作区频道
	sub := redis.Subscribe(ctx, consts.ChannelThreadKey+strconv.FormatUint(parent.ID, 10))
	defer sub.Close()
	if _, err = sub.Receive(ctx); err != nil {
		t.Fatalf("订阅话题频道失败: %v", err)
	}

	if _, err = svc.MarkRead(ctx, owner.ID, &dto.MarkReadReq{WorkspaceID: ws.ID, MessageID: reply.ID}); err != nil {
		t.Fatalf("已读上报失败: %v", err)
	}
	waitForEvent(t, sub, consts.EventMessageRead)
}

func TestDeliveryReceiptRoutesToContextChannel(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	member := seedUser(t, db, "bob")
	ws := seedWorkspace(t, db, owner.ID, member.ID)

	sent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送工作区消息失败: %v", err)
	}

	sub := redis.Subscribe(ctx, consts.ChannelWorkspaceKey+strconv.FormatUint(ws.ID, 10))
	defer sub.Close()
	if _, err = sub.Receive(ctx); err != nil {
		t.Fatalf("订阅工作区频道失败: %v", err)
	}

	if _, err = svc.MarkDelivered(ctx, member.ID, sent.ID); err != nil {
		t.Fatalf("送达上报失败: %v", err)
	}
	waitForEvent(t, sub, consts.EventMessageDeliver)
}

func TestToggleReaction(t *testing.T) {
	svc, db := newTestMessageService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)

	sent, err := svc.SendMessage(ctx, owner.ID, &dto.SendMessageReq{WorkspaceID: ws.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("发送消息失败: %v", err)
	}

	added, err := svc.ToggleReaction(ctx, owner.ID, sent.ID, "👍")
	if err != nil {
		t.Fatalf("添加表情回应失败: %v", err)
	}
	if !added.Added {
		t.Fatal("首次切换应为添加")
	}
	if added.User == nil || added.User.ID != owner.ID || added.User.Name != "alice" {
		t.Fatalf("添加回应应带上用户公开资料: %+v", added.User)
	}

	removed, err := svc.ToggleReaction(ctx, owner.ID, sent.ID, "👍")
	if err != nil {
		t.Fatalf("取消表情回应失败: %v", err)
	}
	if removed.Added {
		t.Fatal("再次切换应为取消")
	}

	if _, err = svc.ToggleReaction(ctx, owner.ID, sent.ID, ""); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("空表情应返回 ErrParamInvalid，实际 %v", err)
	}
}
