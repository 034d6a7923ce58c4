package job

import (
	"Teamflow/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// InviteCleanupJob 清理过期且未被接受的工作区邀请
type InviteCleanupJob struct {
	workspaceRepo repository.WorkspaceRepo
}

func NewInviteCleanupJob(workspaceRepo repository.WorkspaceRepo) *InviteCleanupJob {
	return &InviteCleanupJob{workspaceRepo: workspaceRepo}
}

func (s *InviteCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start invite cleanup job")

	cleaned, err := s.workspaceRepo.DeleteExpiredInvites(ctx, time.Now())
	if err != nil {
		log.Error("failed to delete expired invites", "err", err)
		return
	}

	if cleaned > 0 {
		log.Info("invite cleanup job finished", "cleaned_count", cleaned)
	}
}
