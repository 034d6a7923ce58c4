package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func newTestWorkspaceService(t *testing.T) (WorkspaceService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	initTestRedis(t)

	workspaceRepo := repository.NewWorkspaceRepo(db)
	guard := NewGuard(
		workspaceRepo,
		repository.NewProjectRepo(db),
		repository.NewConversationRepo(db),
	)
	svc := NewWorkspaceService(
		guard,
		workspaceRepo,
		repository.NewUserRepo(db),
		repository.NewProjectRepo(db),
		repository.NewTaskRepo(db),
		nil,
		nil,
	)
	return svc, db
}

func TestGetWorkspaceBySlug(t *testing.T) {
	svc, db := newTestWorkspaceService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	outsider := seedUser(t, db, "bob")
	ws := seedWorkspace(t, db, owner.ID)

	got, err := svc.GetWorkspaceBySlug(ctx, owner.ID, ws.Slug)
	if err != nil {
		t.Fatalf("成员按 slug 查询失败: %v", err)
	}
	if got.ID != ws.ID || got.Slug != ws.Slug {
		t.Fatalf("返回的工作区不符: %+v", got)
	}

	// 非成员不可见
	if _, err = svc.GetWorkspaceBySlug(ctx, outsider.ID, ws.Slug); !errors.Is(err, ErrNotMember) {
		t.Fatalf("非成员按 slug 查询应返回 ErrNotMember，实际 %v", err)
	}

	if _, err = svc.GetWorkspaceBySlug(ctx, owner.ID, "no-such-slug"); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Fatalf("未知 slug 应返回 ErrWorkspaceNotFound，实际 %v", err)
	}
}

func TestCreateWorkspaceSlugConflict(t *testing.T) {
	svc, db := newTestWorkspaceService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)

	_, err := svc.CreateWorkspace(ctx, owner.ID, &dto.CreateWorkspaceDTO{Name: "dup", Slug: ws.Slug})
	if !errors.Is(err, ErrSlugExist) {
		t.Fatalf("slug 冲突应返回 ErrSlugExist，实际 %v", err)
	}
}
