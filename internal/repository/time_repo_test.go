package repository

import (
	"Teamflow/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestSumDurationByTaskID(t *testing.T) {
	db := newTestDB(t)
	repo := NewTimeRepo(db)
	ctx := context.Background()

	now := time.Now()
	for _, sec := range []int64{1800, 600} {
		entry := &model.TimeEntry{UserID: 1, TaskID: 1, StartedAt: now, DurationSec: sec}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			t.Fatalf("创建工时记录失败: %v", err)
		}
	}
	// 其他任务的记录不参与汇总
	if err := repo.CreateEntry(ctx, &model.TimeEntry{UserID: 1, TaskID: 2, StartedAt: now, DurationSec: 999}); err != nil {
		t.Fatalf("创建工时记录失败: %v", err)
	}

	total, err := repo.SumDurationByTaskID(ctx, 1)
	if err != nil {
		t.Fatalf("汇总工时失败: %v", err)
	}
	if total != 2400 {
		t.Fatalf("工时汇总应为 2400，实际 %d", total)
	}

	empty, err := repo.SumDurationByTaskID(ctx, 3)
	if err != nil {
		t.Fatalf("汇总工时失败: %v", err)
	}
	if empty != 0 {
		t.Fatalf("无记录任务的工时应为 0，实际 %d", empty)
	}
}

func TestGetEntriesByUserIDRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewTimeRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{0, 24 * time.Hour, 72 * time.Hour} {
		entry := &model.TimeEntry{UserID: 1, TaskID: 1, StartedAt: base.Add(offset), DurationSec: 60}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			t.Fatalf("创建工时记录失败: %v", err)
		}
	}

	entries, err := repo.GetEntriesByUserID(ctx, 1, base, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("按时间段查询失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("时间段内应有 2 条记录，实际 %d", len(entries))
	}
}

func TestStopTimerCreatesEntry(t *testing.T) {
	db := newTestDB(t)
	repo := NewTimeRepo(db)
	ctx := context.Background()

	started := time.Now().Add(-30 * time.Minute)
	timer := &model.Timer{UserID: 1, TaskID: 1, StartedAt: started}
	if err := repo.CreateTimer(ctx, timer); err != nil {
		t.Fatalf("创建计时器失败: %v", err)
	}

	ended := time.Now()
	entry := &model.TimeEntry{
		UserID:      1,
		TaskID:      1,
		StartedAt:   started,
		EndedAt:     &ended,
		DurationSec: int64(ended.Sub(started).Seconds()),
	}
	if err := repo.StopTimer(ctx, timer, entry); err != nil {
		t.Fatalf("停止计时器失败: %v", err)
	}

	if _, err := repo.GetTimerByUserID(ctx, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("计时器应已删除，实际 err=%v", err)
	}
	entries, err := repo.GetEntriesByTaskID(ctx, 1)
	if err != nil {
		t.Fatalf("查询工时记录失败: %v", err)
	}
	if len(entries) != 1 || entries[0].DurationSec < 1700 {
		t.Fatalf("停止计时应落一条工时记录: %+v", entries)
	}
}

func TestDuplicateTimerRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewTimeRepo(db)
	ctx := context.Background()

	if err := repo.CreateTimer(ctx, &model.Timer{UserID: 1, TaskID: 1, StartedAt: time.Now()}); err != nil {
		t.Fatalf("创建计时器失败: %v", err)
	}
	// user_id 唯一索引保证每人至多一个计时器
	if err := repo.CreateTimer(ctx, &model.Timer{UserID: 1, TaskID: 2, StartedAt: time.Now()}); err == nil {
		t.Fatal("同一用户重复创建计时器应失败")
	}
}

func TestGetStaleTimers(t *testing.T) {
	db := newTestDB(t)
	repo := NewTimeRepo(db)
	ctx := context.Background()

	stale := &model.Timer{UserID: 1, TaskID: 1, StartedAt: time.Now().Add(-25 * time.Hour)}
	fresh := &model.Timer{UserID: 2, TaskID: 1, StartedAt: time.Now().Add(-time.Minute)}
	for _, timer := range []*model.Timer{stale, fresh} {
		if err := repo.CreateTimer(ctx, timer); err != nil {
			t.Fatalf("创建计时器失败: %v", err)
		}
	}

	timers, err := repo.GetStaleTimers(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("查询超时计时器失败: %v", err)
	}
	if len(timers) != 1 || timers[0].UserID != 1 {
		t.Fatalf("应只命中超时计时器: %+v", timers)
	}
}
