package cron

import (
	"Teamflow/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine           *cron.Cron
	timerSweepJob    *job.TimerSweepJob
	inviteCleanupJob *job.InviteCleanupJob
}

func NewCronManager(timerSweepJob *job.TimerSweepJob, inviteCleanupJob *job.InviteCleanupJob) *Manager {
	return &Manager{
		engine:           cron.New(cron.WithSeconds()),
		timerSweepJob:    timerSweepJob,
		inviteCleanupJob: inviteCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@hourly", s.timerSweepJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.inviteCleanupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
