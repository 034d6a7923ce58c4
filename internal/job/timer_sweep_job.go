package job

import (
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// 超过这个时长仍在运行的计时器视为被遗忘，自动停止落账
const maxTimerDuration = 12 * time.Hour

// TimerSweepJob 回收长时间未停止的计时器
type TimerSweepJob struct {
	timeRepo repository.TimeRepo
}

func NewTimerSweepJob(timeRepo repository.TimeRepo) *TimerSweepJob {
	return &TimerSweepJob{timeRepo: timeRepo}
}

func (s *TimerSweepJob) Run() {
	ctx := context.Background()
	log.Info("start timer sweep job")

	// 多实例部署时只允许一个实例执行
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.TimerLockKey+"sweep", lockValue, time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.TimerLockKey+"sweep", lockValue)

	deadline := time.Now().Add(-maxTimerDuration)
	timers, err := s.timeRepo.GetStaleTimers(ctx, deadline)
	if err != nil {
		log.Error("failed to load stale timers", "err", err)
		return
	}

	count := 0
	for _, timer := range timers {
		endedAt := timer.StartedAt.Add(maxTimerDuration)
		entry := &model.TimeEntry{
			UserID:      timer.UserID,
			TaskID:      timer.TaskID,
			StartedAt:   timer.StartedAt,
			EndedAt:     &endedAt,
			DurationSec: int64(maxTimerDuration / time.Second),
		}
		if err = s.timeRepo.StopTimer(ctx, timer, entry); err != nil {
			log.Error("failed to stop stale timer", "user_id", timer.UserID, "err", err)
			continue
		}
		count++
	}

	if count > 0 {
		log.Info("timer sweep job finished", "stopped_count", count)
	}
}
