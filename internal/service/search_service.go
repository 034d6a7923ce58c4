package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/es"
	"Teamflow/internal/pkg/util"
	"context"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SearchService 工作区内全文检索服务接口定义
type SearchService interface {
	SearchTasks(ctx context.Context, userID, workspaceID uint64, req *dto.SearchQueryDTO) (*dto.TaskSearchResultDTO, error)
	SearchMessages(ctx context.Context, userID, workspaceID uint64, req *dto.SearchQueryDTO) (*dto.MessageSearchResultDTO, error)
	GetTaskSuggestions(ctx context.Context, userID, workspaceID uint64, keyword string) ([]string, error)
}

type searchServiceImpl struct {
	guard     Guard
	taskES    es.TaskRepo
	messageES es.MessageRepo
}

func NewSearchService(guard Guard, taskES es.TaskRepo, messageES es.MessageRepo) SearchService {
	return &searchServiceImpl{
		guard:     guard,
		taskES:    taskES,
		messageES: messageES,
	}
}

// SearchTasks 任务检索，游标翻页基于 search_after
func (s *searchServiceImpl) SearchTasks(ctx context.Context, userID, workspaceID uint64, req *dto.SearchQueryDTO) (*dto.TaskSearchResultDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	lastSort, err := util.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}

	filter := es.TaskSearchFilter{
		ProjectID:  req.ProjectID,
		Status:     req.Status,
		AssigneeID: req.AssigneeID,
	}
	hits, err := s.taskES.SearchTasks(ctx, workspaceID, req.Keyword, filter, lastSort, normalizeSize(req.PageSize))
	if err != nil {
		return nil, err
	}

	res := &dto.TaskSearchResultDTO{Items: make([]*dto.TaskHitDTO, 0, len(hits))}
	for _, hit := range hits {
		res.Items = append(res.Items, &dto.TaskHitDTO{
			ID:           hit.ID,
			ProjectID:    hit.ProjectID,
			Title:        hit.Title,
			Description:  hit.Description,
			Status:       hit.Status,
			Priority:     hit.Priority,
			AssigneeName: hit.AssigneeName,
			Tags:         hit.Tags,
		})
	}
	if len(hits) > 0 {
		res.NextCursor = util.EncodeCursor(hits[len(hits)-1].Sort)
	}
	return res, nil
}

func (s *searchServiceImpl) SearchMessages(ctx context.Context, userID, workspaceID uint64, req *dto.SearchQueryDTO) (*dto.MessageSearchResultDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	lastSort, err := util.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}

	hits, err := s.messageES.SearchMessages(ctx, workspaceID, req.Keyword, lastSort, normalizeSize(req.PageSize))
	if err != nil {
		return nil, err
	}

	res := &dto.MessageSearchResultDTO{Items: make([]*dto.MessageHitDTO, 0, len(hits))}
	for _, hit := range hits {
		res.Items = append(res.Items, &dto.MessageHitDTO{
			ID:             hit.ID,
			ProjectID:      hit.ProjectID,
			ConversationID: hit.ConversationID,
			SenderID:       hit.SenderID,
			SenderName:     hit.SenderName,
			Content:        hit.Content,
			CreatedAt:      hit.CreatedAt.Format(timeLayout),
		})
	}
	if len(hits) > 0 {
		res.NextCursor = util.EncodeCursor(hits[len(hits)-1].Sort)
	}
	return res, nil
}

// GetTaskSuggestions 输入联想，基于标题的 completion suggester
func (s *searchServiceImpl) GetTaskSuggestions(ctx context.Context, userID, workspaceID uint64, keyword string) ([]string, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	if keyword == "" {
		return []string{}, nil
	}
	return s.taskES.GetSuggestions(ctx, workspaceID, keyword)
}

func normalizeSize(size int) int {
	if size < 1 {
		return defaultSearchSize
	}
	if size > maxSearchSize {
		return maxSearchSize
	}
	return size
}
