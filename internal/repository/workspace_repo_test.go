package repository

import (
	"Teamflow/internal/model"
	"context"
	"testing"
	"time"
)

func TestCreateWorkspaceWithOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkspaceRepo(db)
	ctx := context.Background()

	ws := &model.Workspace{Name: "Acme", Slug: "acme", OwnerID: 1}
	owner := &model.WorkspaceMember{UserID: 1, Role: "OWNER", JoinedAt: time.Now()}
	if err := repo.CreateWorkspace(ctx, ws, owner); err != nil {
		t.Fatalf("创建工作区失败: %v", err)
	}

	member, err := repo.GetMember(ctx, ws.ID, 1)
	if err != nil {
		t.Fatalf("所有者应自动成为成员: %v", err)
	}
	if member.Role != "OWNER" {
		t.Fatalf("角色应为 OWNER，实际 %s", member.Role)
	}

	list, err := repo.GetWorkspacesByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("查询用户工作区失败: %v", err)
	}
	if len(list) != 1 || list[0].Slug != "acme" {
		t.Fatalf("用户工作区列表不符合预期: %+v", list)
	}
}

func TestAcceptInviteOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkspaceRepo(db)
	ctx := context.Background()

	invite := &model.WorkspaceInvite{
		WorkspaceID: 1,
		Email:       "dev@example.com",
		Token:       "tok-123",
		InviterID:   1,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := repo.CreateInvite(ctx, invite); err != nil {
		t.Fatalf("创建邀请失败: %v", err)
	}

	if err := repo.AcceptInvite(ctx, invite.ID, time.Now()); err != nil {
		t.Fatalf("接受邀请失败: %v", err)
	}

	got, err := repo.GetInviteByToken(ctx, "tok-123")
	if err != nil {
		t.Fatalf("按 token 查询失败: %v", err)
	}
	if got.AcceptedAt == nil {
		t.Fatal("accepted_at 应已写入")
	}

	// 已接受的邀请不出现在待处理列表
	pending, err := repo.GetInvitesByWorkspaceID(ctx, 1)
	if err != nil {
		t.Fatalf("查询待处理邀请失败: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("待处理邀请应为空，实际 %d", len(pending))
	}
}

func TestDeleteExpiredInvites(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkspaceRepo(db)
	ctx := context.Background()

	expired := &model.WorkspaceInvite{
		WorkspaceID: 1, Email: "old@example.com", Token: "tok-old",
		InviterID: 1, ExpiresAt: time.Now().Add(-time.Hour),
	}
	valid := &model.WorkspaceInvite{
		WorkspaceID: 1, Email: "new@example.com", Token: "tok-new",
		InviterID: 1, ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, inv := range []*model.WorkspaceInvite{expired, valid} {
		if err := repo.CreateInvite(ctx, inv); err != nil {
			t.Fatalf("创建邀请失败: %v", err)
		}
	}

	deleted, err := repo.DeleteExpiredInvites(ctx, time.Now())
	if err != nil {
		t.Fatalf("清理过期邀请失败: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("应清理 1 条过期邀请，实际 %d", deleted)
	}
	if _, err = repo.GetInviteByToken(ctx, "tok-new"); err != nil {
		t.Fatalf("未过期邀请不应被清理: %v", err)
	}
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkspaceRepo(db)
	ctx := context.Background()

	ws := &model.Workspace{Name: "Acme", Slug: "acme", OwnerID: 1}
	owner := &model.WorkspaceMember{UserID: 1, Role: "OWNER", JoinedAt: time.Now()}
	if err := repo.CreateWorkspace(ctx, ws, owner); err != nil {
		t.Fatalf("创建工作区失败: %v", err)
	}
	invite := &model.WorkspaceInvite{
		WorkspaceID: ws.ID, Email: "dev@example.com", Token: "tok",
		InviterID: 1, ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.CreateInvite(ctx, invite); err != nil {
		t.Fatalf("创建邀请失败: %v", err)
	}

	if err := repo.DeleteWorkspace(ctx, ws.ID); err != nil {
		t.Fatalf("删除工作区失败: %v", err)
	}

	var members, invites int64
	db.Model(&model.WorkspaceMember{}).Where("workspace_id = ?", ws.ID).Count(&members)
	db.Model(&model.WorkspaceInvite{}).Where("workspace_id = ?", ws.ID).Count(&invites)
	if members != 0 || invites != 0 {
		t.Fatalf("级联删除后不应有残留: members=%d invites=%d", members, invites)
	}
}
