package repository

import (
	"Teamflow/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func seedMessage(t *testing.T, db *gorm.DB, msg *model.Message) *model.Message {
	t.Helper()
	if msg.Status == "" {
		msg.Status = model.MessageStatusSent
	}
	if err := db.Create(msg).Error; err != nil {
		t.Fatalf("写入消息失败: %v", err)
	}
	return msg
}

func TestMarkDeliveredTransitionsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	msg := seedMessage(t, db, &model.Message{
		SenderID:   1,
		ReceiverID: ptrUint64(2),
		Content:    "hello",
	})

	first := time.Now().Truncate(time.Second)
	transitioned, err := repo.MarkDelivered(ctx, msg.ID, first)
	if err != nil {
		t.Fatalf("MarkDelivered 失败: %v", err)
	}
	if !transitioned {
		t.Fatal("首次送达确认应发生状态迁移")
	}

	// 重复上报不应重写 delivered_at
	transitioned, err = repo.MarkDelivered(ctx, msg.ID, first.Add(time.Hour))
	if err != nil {
		t.Fatalf("重复 MarkDelivered 失败: %v", err)
	}
	if transitioned {
		t.Fatal("重复送达确认不应再次迁移")
	}

	got, err := repo.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("读取消息失败: %v", err)
	}
	if got.Status != model.MessageStatusDelivered {
		t.Fatalf("状态应为 DELIVERED，实际 %s", got.Status)
	}
	if got.DeliveredAt == nil || !got.DeliveredAt.Equal(first) {
		t.Fatalf("delivered_at 应保留首次时间，实际 %v", got.DeliveredAt)
	}
}

func TestMarkDeliveredSkipsReadMessage(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	msg := seedMessage(t, db, &model.Message{
		SenderID:   1,
		ReceiverID: ptrUint64(2),
		Content:    "hello",
		Status:     model.MessageStatusRead,
	})

	transitioned, err := repo.MarkDelivered(ctx, msg.ID, time.Now())
	if err != nil {
		t.Fatalf("MarkDelivered 失败: %v", err)
	}
	if transitioned {
		t.Fatal("已读消息不应回退为 DELIVERED")
	}
}

func TestMarkReadAdvancesWatermarkForward(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	m1 := seedMessage(t, db, &model.Message{SenderID: 1, WorkspaceID: ptrUint64(10), Content: "a"})
	m2 := seedMessage(t, db, &model.Message{SenderID: 1, WorkspaceID: ptrUint64(10), Content: "b"})

	t1 := time.Now().Add(-time.Minute)
	err := repo.MarkRead(ctx, &model.MessageRead{
		UserID:      2,
		MessageID:   m1.ID,
		WorkspaceID: ptrUint64(10),
		LastReadAt:  t1,
	}, false)
	if err != nil {
		t.Fatalf("首次 MarkRead 失败: %v", err)
	}

	t2 := time.Now()
	err = repo.MarkRead(ctx, &model.MessageRead{
		UserID:      2,
		MessageID:   m2.ID,
		WorkspaceID: ptrUint64(10),
		LastReadAt:  t2,
	}, false)
	if err != nil {
		t.Fatalf("推进 MarkRead 失败: %v", err)
	}

	var reads []model.MessageRead
	if err = db.Where("user_id = ?", 2).Find(&reads).Error; err != nil {
		t.Fatalf("查询水位线失败: %v", err)
	}
	if len(reads) != 1 {
		t.Fatalf("同一上下文应只有一条水位线记录，实际 %d 条", len(reads))
	}
	if reads[0].MessageID != m2.ID {
		t.Fatalf("水位线应指向最新消息 %d，实际 %d", m2.ID, reads[0].MessageID)
	}
}

func TestMarkReadRejectsRegression(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	m1 := seedMessage(t, db, &model.Message{SenderID: 1, WorkspaceID: ptrUint64(10), Content: "a"})
	m2 := seedMessage(t, db, &model.Message{SenderID: 1, WorkspaceID: ptrUint64(10), Content: "b"})

	newer := time.Now()
	err := repo.MarkRead(ctx, &model.MessageRead{
		UserID:      2,
		MessageID:   m2.ID,
		WorkspaceID: ptrUint64(10),
		LastReadAt:  newer,
	}, false)
	if err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}

	// 晚到的旧时间戳不应回退水位线
	stale := &model.MessageRead{
		UserID:      2,
		MessageID:   m1.ID,
		WorkspaceID: ptrUint64(10),
		LastReadAt:  newer.Add(-time.Hour),
	}
	if err = repo.MarkRead(ctx, stale, false); err != nil {
		t.Fatalf("过期 MarkRead 失败: %v", err)
	}
	if stale.MessageID != m2.ID {
		t.Fatalf("回写的水位线应保持 %d，实际 %d", m2.ID, stale.MessageID)
	}

	var read model.MessageRead
	if err = db.Where("user_id = ?", 2).First(&read).Error; err != nil {
		t.Fatalf("查询水位线失败: %v", err)
	}
	if read.MessageID != m2.ID {
		t.Fatalf("库中水位线不应回退，期望 %d 实际 %d", m2.ID, read.MessageID)
	}
}

func TestMarkReadAdvancesDirectMessageStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	// 直发消息允许 SENT 直接跳到 READ
	msg := seedMessage(t, db, &model.Message{
		SenderID:   1,
		ReceiverID: ptrUint64(2),
		Content:    "dm",
	})

	err := repo.MarkRead(ctx, &model.MessageRead{
		UserID:     2,
		MessageID:  msg.ID,
		ReceiverID: ptrUint64(1),
		LastReadAt: time.Now(),
	}, true)
	if err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}

	got, err := repo.GetMessage(ctx, msg.ID)
	if err != nil {
		t.Fatalf("读取消息失败: %v", err)
	}
	if got.Status != model.MessageStatusRead {
		t.Fatalf("直发消息已读后状态应为 READ，实际 %s", got.Status)
	}
}

func TestReactionToggleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	msg := seedMessage(t, db, &model.Message{SenderID: 1, WorkspaceID: ptrUint64(10), Content: "a"})

	if _, err := repo.GetReaction(ctx, msg.ID, 2, "👍"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("未添加前应查不到表情，err=%v", err)
	}

	r := &model.Reaction{MessageID: msg.ID, UserID: 2, Emoji: "👍"}
	if err := repo.CreateReaction(ctx, r); err != nil {
		t.Fatalf("添加表情失败: %v", err)
	}

	got, err := repo.GetReaction(ctx, msg.ID, 2, "👍")
	if err != nil {
		t.Fatalf("查询表情失败: %v", err)
	}
	if err = repo.DeleteReaction(ctx, got.ID); err != nil {
		t.Fatalf("删除表情失败: %v", err)
	}

	reactions, err := repo.GetReactionsByMessageID(ctx, msg.ID)
	if err != nil {
		t.Fatalf("列出表情失败: %v", err)
	}
	if len(reactions) != 0 {
		t.Fatalf("删除后不应有残留表情，实际 %d", len(reactions))
	}
}

func TestGetDirectMessagesBothDirections(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepo(db)
	ctx := context.Background()

	seedMessage(t, db, &model.Message{SenderID: 1, ReceiverID: ptrUint64(2), Content: "a"})
	seedMessage(t, db, &model.Message{SenderID: 2, ReceiverID: ptrUint64(1), Content: "b"})
	seedMessage(t, db, &model.Message{SenderID: 1, ReceiverID: ptrUint64(3), Content: "c"})

	messages, err := repo.GetDirectMessages(ctx, 1, 2, 0, 50)
	if err != nil {
		t.Fatalf("查询私聊历史失败: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("私聊历史应包含双向消息 2 条，实际 %d", len(messages))
	}
	if messages[0].ID < messages[1].ID {
		t.Fatal("历史应按 id 倒序返回")
	}
}
