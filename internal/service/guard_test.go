package service

import (
	"Teamflow/internal/model"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"testing"
	"time"
)

func TestAssertWorkspaceMember(t *testing.T) {
	db := newTestDB(t)
	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		repository.NewProjectRepo(db),
		repository.NewConversationRepo(db),
	)
	ctx := context.Background()

	ws := seedWorkspace(t, db, 1, 2)

	if _, err := guard.AssertWorkspaceMember(ctx, ws.ID, 2); err != nil {
		t.Fatalf("成员应通过校验: %v", err)
	}
	if _, err := guard.AssertWorkspaceMember(ctx, ws.ID, 99); !errors.Is(err, ErrNotMember) {
		t.Fatalf("非成员应返回 ErrNotMember，实际 %v", err)
	}
	// 工作区不存在也按无权处理
	if _, err := guard.AssertWorkspaceMember(ctx, 999, 1); !errors.Is(err, ErrNotMember) {
		t.Fatalf("不存在的工作区应返回 ErrNotMember，实际 %v", err)
	}
}

func TestAssertWorkspaceOwner(t *testing.T) {
	db := newTestDB(t)
	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		repository.NewProjectRepo(db),
		repository.NewConversationRepo(db),
	)
	ctx := context.Background()

	ws := seedWorkspace(t, db, 1, 2)

	if err := guard.AssertWorkspaceOwner(ctx, ws.ID, 1); err != nil {
		t.Fatalf("所有者应通过校验: %v", err)
	}
	if err := guard.AssertWorkspaceOwner(ctx, ws.ID, 2); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("普通成员应返回 ErrNotOwner，实际 %v", err)
	}
}

func TestAssertProjectMemberFallsBackToWorkspace(t *testing.T) {
	db := newTestDB(t)
	projectRepo := repository.NewProjectRepo(db)
	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		projectRepo,
		repository.NewConversationRepo(db),
	)
	ctx := context.Background()

	ws := seedWorkspace(t, db, 1, 2)
	project := &model.Project{WorkspaceID: ws.ID, Name: "p", CreatorID: 1}
	creator := &model.ProjectMember{UserID: 1, JoinedAt: time.Now()}
	if err := projectRepo.CreateProject(ctx, project, creator); err != nil {
		t.Fatalf("创建项目失败: %v", err)
	}

	// 工作区成员即使不在项目成员表也可访问项目
	got, err := guard.AssertProjectMember(ctx, project.ID, 2)
	if err != nil {
		t.Fatalf("工作区成员应可访问项目: %v", err)
	}
	if got.ID != project.ID {
		t.Fatalf("应返回项目本体，实际 %+v", got)
	}

	if _, err = guard.AssertProjectMember(ctx, project.ID, 99); !errors.Is(err, ErrNotMember) {
		t.Fatalf("外部用户应返回 ErrNotMember，实际 %v", err)
	}
	if _, err = guard.AssertProjectMember(ctx, 999, 1); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("不存在的项目应返回 ErrProjectNotFound，实际 %v", err)
	}
}

func TestAssertConversationMember(t *testing.T) {
	db := newTestDB(t)
	conversationRepo := repository.NewConversationRepo(db)
	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		repository.NewProjectRepo(db),
		conversationRepo,
	)
	ctx := context.Background()

	conv := &model.Conversation{WorkspaceID: 1, Name: "c", CreatorID: 1, IsGroup: true}
	if err := conversationRepo.CreateConversation(ctx, conv, []uint64{1, 2}); err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}

	if _, err := guard.AssertConversationMember(ctx, conv.ID, 2); err != nil {
		t.Fatalf("会话成员应通过校验: %v", err)
	}
	if _, err := guard.AssertConversationMember(ctx, conv.ID, 99); !errors.Is(err, ErrNotMember) {
		t.Fatalf("非成员应返回 ErrNotMember，实际 %v", err)
	}
	if _, err := guard.AssertConversationMember(ctx, 999, 1); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("不存在的会话应返回 ErrConversationNotFound，实际 %v", err)
	}
}
