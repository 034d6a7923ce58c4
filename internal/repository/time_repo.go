package repository

import (
	"Teamflow/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type TimeRepo interface {
	CreateEntry(ctx context.Context, entry *model.TimeEntry) error
	GetEntryByID(ctx context.Context, id uint64) (*model.TimeEntry, error)
	GetEntriesByTaskID(ctx context.Context, taskID uint64) ([]*model.TimeEntry, error)
	GetEntriesByUserID(ctx context.Context, userID uint64, from, to time.Time) ([]*model.TimeEntry, error)
	DeleteEntry(ctx context.Context, id uint64) error
	SumDurationByTaskID(ctx context.Context, taskID uint64) (int64, error)

	GetTimerByUserID(ctx context.Context, userID uint64) (*model.Timer, error)
	CreateTimer(ctx context.Context, timer *model.Timer) error
	StopTimer(ctx context.Context, timer *model.Timer, entry *model.TimeEntry) error
	GetStaleTimers(ctx context.Context, startedBefore time.Time) ([]*model.Timer, error)
}

type timeRepoImpl struct {
	db *gorm.DB
}

func NewTimeRepo(db *gorm.DB) TimeRepo {
	return &timeRepoImpl{db: db}
}

func (s *timeRepoImpl) CreateEntry(ctx context.Context, entry *model.TimeEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *timeRepoImpl) GetEntryByID(ctx context.Context, id uint64) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := s.db.WithContext(ctx).First(&entry, id).Error
	return &entry, err
}

func (s *timeRepoImpl) GetEntriesByTaskID(ctx context.Context, taskID uint64) ([]*model.TimeEntry, error) {
	var entries []*model.TimeEntry
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("started_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *timeRepoImpl) GetEntriesByUserID(ctx context.Context, userID uint64, from, to time.Time) ([]*model.TimeEntry, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("started_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("started_at < ?", to)
	}

	var entries []*model.TimeEntry
	err := query.Order("started_at DESC").Find(&entries).Error
	return entries, err
}

func (s *timeRepoImpl) DeleteEntry(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.TimeEntry{}, id).Error
}

func (s *timeRepoImpl) SumDurationByTaskID(ctx context.Context, taskID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(SUM(duration_sec), 0)").
		Scan(&total).Error
	return total, err
}

func (s *timeRepoImpl) GetTimerByUserID(ctx context.Context, userID uint64) (*model.Timer, error) {
	var timer model.Timer
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&timer).Error
	return &timer, err
}

func (s *timeRepoImpl) CreateTimer(ctx context.Context, timer *model.Timer) error {
	return s.db.WithContext(ctx).Create(timer).Error
}

// StopTimer 删除计时器并落一条工时记录，两步同一事务
func (s *timeRepoImpl) StopTimer(ctx context.Context, timer *model.Timer, entry *model.TimeEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Timer{}, timer.ID).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// GetStaleTimers 供定时任务回收长时间未停止的计时器
func (s *timeRepoImpl) GetStaleTimers(ctx context.Context, startedBefore time.Time) ([]*model.Timer, error) {
	var timers []*model.Timer
	err := s.db.WithContext(ctx).
		Where("started_at < ?", startedBefore).
		Find(&timers).Error
	return timers, err
}
