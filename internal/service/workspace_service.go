package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/kafka"
	"Teamflow/internal/pkg/mail"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/pkg/mongo"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const inviteTTL = 7 * 24 * time.Hour

// WorkspaceService 工作区服务接口定义
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID uint64, req *dto.CreateWorkspaceDTO) (*dto.WorkspaceDTO, error)
	GetWorkspace(ctx context.Context, userID, workspaceID uint64) (*dto.WorkspaceDTO, error)
	GetWorkspaceBySlug(ctx context.Context, userID uint64, slug string) (*dto.WorkspaceDTO, error)
	GetMyWorkspaces(ctx context.Context, userID uint64) ([]*dto.WorkspaceDTO, error)
	UpdateWorkspace(ctx context.Context, userID, workspaceID uint64, req *dto.UpdateWorkspaceDTO) error
	DeleteWorkspace(ctx context.Context, userID, workspaceID uint64) error

	GetMembers(ctx context.Context, userID, workspaceID uint64) ([]*dto.MemberDTO, error)
	RemoveMember(ctx context.Context, userID, workspaceID, targetUserID uint64) error

	CreateInvite(ctx context.Context, userID, workspaceID uint64, req *dto.CreateInviteDTO) (*dto.InviteDTO, error)
	AcceptInvite(ctx context.Context, userID uint64, token string) (*dto.WorkspaceDTO, error)
	GetInvites(ctx context.Context, userID, workspaceID uint64) ([]*dto.InviteDTO, error)

	CreateTag(ctx context.Context, userID, workspaceID uint64, req *dto.CreateTagDTO) (*dto.TagDTO, error)
	GetTags(ctx context.Context, userID, workspaceID uint64) ([]*dto.TagDTO, error)
	DeleteTag(ctx context.Context, userID, workspaceID, tagID uint64) error

	GetActivities(ctx context.Context, userID, workspaceID uint64, limit int64) ([]*dto.ActivityDTO, error)
	GetDashboard(ctx context.Context, userID, workspaceID uint64) (*dto.DashboardDTO, error)
}

type workspaceServiceImpl struct {
	guard         Guard
	workspaceRepo repository.WorkspaceRepo
	userRepo      repository.UserRepo
	projectRepo   repository.ProjectRepo
	taskRepo      repository.TaskRepo
	activityRepo  mongo.ActivityRepo
	mailClient    *mail.Client
}

func NewWorkspaceService(
	guard Guard,
	workspaceRepo repository.WorkspaceRepo,
	userRepo repository.UserRepo,
	projectRepo repository.ProjectRepo,
	taskRepo repository.TaskRepo,
	activityRepo mongo.ActivityRepo,
	mailClient *mail.Client,
) WorkspaceService {
	return &workspaceServiceImpl{
		guard:         guard,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		projectRepo:   projectRepo,
		taskRepo:      taskRepo,
		activityRepo:  activityRepo,
		mailClient:    mailClient,
	}
}

func (s *workspaceServiceImpl) CreateWorkspace(ctx context.Context, userID uint64, req *dto.CreateWorkspaceDTO) (*dto.WorkspaceDTO, error) {
	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if slug == "" {
		return nil, ErrParamInvalid
	}

	if _, err := s.workspaceRepo.GetWorkspaceBySlug(ctx, slug); err == nil {
		return nil, ErrSlugExist
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ws := &model.Workspace{
		Name:    req.Name,
		Slug:    slug,
		OwnerID: userID,
	}
	owner := &model.WorkspaceMember{
		UserID:   userID,
		Role:     consts.RoleOwner,
		JoinedAt: time.Now(),
	}
	if err := s.workspaceRepo.CreateWorkspace(ctx, ws, owner); err != nil {
		return nil, err
	}

	return toWorkspaceDTO(ws), nil
}

func (s *workspaceServiceImpl) GetWorkspace(ctx context.Context, userID, workspaceID uint64) (*dto.WorkspaceDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return toWorkspaceDTO(ws), nil
}

// GetWorkspaceBySlug 按 slug 定位工作区，仅限成员访问
func (s *workspaceServiceImpl) GetWorkspaceBySlug(ctx context.Context, userID uint64, slug string) (*dto.WorkspaceDTO, error) {
	ws, err := s.workspaceRepo.GetWorkspaceBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}

	if _, err = s.guard.AssertWorkspaceMember(ctx, ws.ID, userID); err != nil {
		return nil, err
	}
	return toWorkspaceDTO(ws), nil
}

func (s *workspaceServiceImpl) GetMyWorkspaces(ctx context.Context, userID uint64) ([]*dto.WorkspaceDTO, error) {
	workspaces, err := s.workspaceRepo.GetWorkspacesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.WorkspaceDTO, 0, len(workspaces))
	for _, ws := range workspaces {
		res = append(res, toWorkspaceDTO(ws))
	}
	return res, nil
}

func (s *workspaceServiceImpl) UpdateWorkspace(ctx context.Context, userID, workspaceID uint64, req *dto.UpdateWorkspaceDTO) error {
	if err := s.guard.AssertWorkspaceOwner(ctx, workspaceID, userID); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.workspaceRepo.UpdateWorkspace(ctx, workspaceID, updates)
}

func (s *workspaceServiceImpl) DeleteWorkspace(ctx context.Context, userID, workspaceID uint64) error {
	if err := s.guard.AssertWorkspaceOwner(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.workspaceRepo.DeleteWorkspace(ctx, workspaceID)
}

func (s *workspaceServiceImpl) GetMembers(ctx context.Context, userID, workspaceID uint64) ([]*dto.MemberDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.GetMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	res := make([]*dto.MemberDTO, 0, len(members))
	for _, m := range members {
		d := &dto.MemberDTO{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.Format(timeLayout),
		}
		if u, ok := userByID[m.UserID]; ok {
			d.Name = u.Name
			d.AvatarURL = minio.GetPublicURL(u.AvatarURL)
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *workspaceServiceImpl) RemoveMember(ctx context.Context, userID, workspaceID, targetUserID uint64) error {
	// 成员可以自己退出，移除他人需要所有者权限
	if userID != targetUserID {
		if err := s.guard.AssertWorkspaceOwner(ctx, workspaceID, userID); err != nil {
			return err
		}
	} else if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return err
	}

	ws, err := s.workspaceRepo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID == targetUserID {
		return ErrNotOwner
	}

	return s.workspaceRepo.RemoveMember(ctx, workspaceID, targetUserID)
}

func (s *workspaceServiceImpl) CreateInvite(ctx context.Context, userID, workspaceID uint64, req *dto.CreateInviteDTO) (*dto.InviteDTO, error) {
	if err := s.guard.AssertWorkspaceOwner(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	invite := &model.WorkspaceInvite{
		WorkspaceID: workspaceID,
		Email:       strings.ToLower(req.Email),
		Role:        consts.RoleMember,
		Token:       uuid.NewString(),
		InviterID:   userID,
		ExpiresAt:   time.Now().Add(inviteTTL),
	}
	if err = s.workspaceRepo.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	// 邮件与事件都不阻塞请求
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailClient.SendInvite(mailCtx, invite.Email, ws.Name, invite.Token); err != nil {
			log.Error("Failed to send invite mail", "email", invite.Email, "err", err)
		}
	}()
	go func() {
		event := &kafka.DomainEvent{
			Type:        consts.DomainEventInviteCreated,
			ActorID:     userID,
			WorkspaceID: workspaceID,
			TargetID:    invite.ID,
			Content:     ws.Name,
			Payload:     map[string]string{"entity_type": "invite", "email": invite.Email},
		}
		if err := kafka.PublishEvent(event); err != nil {
			log.Error("Failed to publish invite event", "invite_id", invite.ID, "err", err)
		}
	}()

	return toInviteDTO(invite), nil
}

func (s *workspaceServiceImpl) AcceptInvite(ctx context.Context, userID uint64, token string) (*dto.WorkspaceDTO, error) {
	invite, err := s.workspaceRepo.GetInviteByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.AcceptedAt != nil || time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteNotFound
	}

	if _, err = s.workspaceRepo.GetMember(ctx, invite.WorkspaceID, userID); err == nil {
		return nil, ErrMemberExist
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := &model.WorkspaceMember{
		WorkspaceID: invite.WorkspaceID,
		UserID:      userID,
		Role:        invite.Role,
		JoinedAt:    time.Now(),
	}
	if err = s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	if err = s.workspaceRepo.AcceptInvite(ctx, invite.ID, time.Now()); err != nil {
		return nil, err
	}

	ws, err := s.workspaceRepo.GetWorkspaceByID(ctx, invite.WorkspaceID)
	if err != nil {
		return nil, err
	}

	go func() {
		event := &kafka.DomainEvent{
			Type:        consts.DomainEventMemberJoined,
			ActorID:     userID,
			WorkspaceID: invite.WorkspaceID,
			TargetID:    userID,
			ReceiverIDs: []uint64{invite.InviterID},
			Content:     ws.Name,
			Payload:     map[string]string{"entity_type": "member"},
		}
		if err := kafka.PublishEvent(event); err != nil {
			log.Error("Failed to publish member joined event", "workspace_id", invite.WorkspaceID, "err", err)
		}
	}()

	return toWorkspaceDTO(ws), nil
}

func (s *workspaceServiceImpl) GetInvites(ctx context.Context, userID, workspaceID uint64) ([]*dto.InviteDTO, error) {
	if err := s.guard.AssertWorkspaceOwner(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	invites, err := s.workspaceRepo.GetInvitesByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InviteDTO, 0, len(invites))
	for _, invite := range invites {
		res = append(res, toInviteDTO(invite))
	}
	return res, nil
}

func (s *workspaceServiceImpl) CreateTag(ctx context.Context, userID, workspaceID uint64, req *dto.CreateTagDTO) (*dto.TagDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	tag := &model.Tag{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Color:       req.Color,
	}
	if err := s.workspaceRepo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return &dto.TagDTO{ID: tag.ID, Name: tag.Name, Color: tag.Color}, nil
}

func (s *workspaceServiceImpl) GetTags(ctx context.Context, userID, workspaceID uint64) ([]*dto.TagDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	tags, err := s.workspaceRepo.GetTagsByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		res = append(res, &dto.TagDTO{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}
	return res, nil
}

func (s *workspaceServiceImpl) DeleteTag(ctx context.Context, userID, workspaceID, tagID uint64) error {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.workspaceRepo.DeleteTag(ctx, tagID)
}

func (s *workspaceServiceImpl) GetActivities(ctx context.Context, userID, workspaceID uint64, limit int64) ([]*dto.ActivityDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	activities, err := s.activityRepo.GetWorkspaceActivities(ctx, workspaceID, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ActivityDTO, 0, len(activities))
	for _, a := range activities {
		res = append(res, &dto.ActivityDTO{
			ID:         a.ID.Hex(),
			ActorID:    a.ActorID,
			Action:     a.Action,
			EntityType: a.EntityType,
			EntityID:   a.EntityID,
			Summary:    a.Summary,
			CreatedAt:  a.CreatedAt.Format(timeLayout),
		})
	}
	return res, nil
}

// GetDashboard 工作区概览页数据
func (s *workspaceServiceImpl) GetDashboard(ctx context.Context, userID, workspaceID uint64) (*dto.DashboardDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	members, err := s.workspaceRepo.GetMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	projectCount, err := s.projectRepo.CountByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	taskCounts, err := s.taskRepo.CountByWorkspaceStatus(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	activities, err := s.GetActivities(ctx, userID, workspaceID, 10)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		MemberCount:      int64(len(members)),
		ProjectCount:     projectCount,
		TaskCounts:       taskCounts,
		RecentActivities: activities,
	}, nil
}

func toInviteDTO(invite *model.WorkspaceInvite) *dto.InviteDTO {
	return &dto.InviteDTO{
		ID:        invite.ID,
		Email:     invite.Email,
		Token:     invite.Token,
		ExpiresAt: invite.ExpiresAt.Format(timeLayout),
		CreatedAt: invite.CreatedAt.Format(timeLayout),
	}
}
