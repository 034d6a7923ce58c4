package es

import (
	"Teamflow/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

// TaskSearchFilter 任务检索过滤条件，零值字段不参与过滤
type TaskSearchFilter struct {
	ProjectID  uint64
	Status     string
	AssigneeID uint64
}

type TaskRepo interface {
	SearchTasks(ctx context.Context, workspaceID uint64, keyword string, filter TaskSearchFilter, lastSortValues []interface{}, size int) ([]*TaskES, error)
	GetSuggestions(ctx context.Context, workspaceID uint64, keyword string) ([]string, error)
	IndexTask(ctx context.Context, task *TaskES, version int64) error
	DeleteTask(ctx context.Context, id uint64) error
}

type TaskRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewTaskRepo(client *elasticsearch.TypedClient) TaskRepo {
	return &TaskRepoImpl{client: client}
}

// SearchTasks 工作区内任务全文检索，lastSortValues 为 SearchAfter 游标
func (s *TaskRepoImpl) SearchTasks(ctx context.Context, workspaceID uint64, keyword string, filter TaskSearchFilter, lastSortValues []interface{}, size int) ([]*TaskES, error) {
	filters := []types.Query{
		{Term: map[string]types.TermQuery{"workspace_id": {Value: workspaceID}}},
	}
	if filter.ProjectID > 0 {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"project_id": {Value: filter.ProjectID}},
		})
	}
	if filter.Status != "" {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"status": {Value: filter.Status}},
		})
	}
	if filter.AssigneeID > 0 {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"assignee_id": {Value: filter.AssigneeID}},
		})
	}

	boolQuery := &types.BoolQuery{Filter: filters}
	if keyword != "" {
		boolQuery.Must = []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     keyword,
					Fields:    []string{"title^3", "description", "tags^2", "assignee_name"},
					Fuzziness: util.PtrStr("AUTO"),
				},
			},
		}
	}

	req := s.client.Search().
		Index(TaskIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"_score": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"id": {Order: &sortorder.Desc},
			}},
		).
		Size(size)

	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return executeTaskSearch(ctx, req)
}

func (s *TaskRepoImpl) GetSuggestions(ctx context.Context, workspaceID uint64, keyword string) ([]string, error) {
	suggestKey := "task-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "title.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: util.PtrStr("AUTO"),
			},
			Size: util.PtrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(TaskIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

// IndexTask 以外部版本号写入，旧版本事件到达时直接忽略冲突
func (s *TaskRepoImpl) IndexTask(ctx context.Context, task *TaskES, version int64) error {
	docID := strconv.FormatUint(task.ID, 10)

	_, err := s.client.Index(TaskIndex).
		Id(docID).
		Document(task).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *TaskRepoImpl) DeleteTask(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(TaskIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func executeTaskSearch(ctx context.Context, req *search.Search) ([]*TaskES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*TaskES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var task TaskES
		if err = json.Unmarshal(hit.Source_, &task); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			task.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				task.Sort[i] = v
			}
		}
		results = append(results, &task)
	}
	return results, nil
}
