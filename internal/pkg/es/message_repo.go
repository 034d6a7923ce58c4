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

type MessageRepo interface {
	SearchMessages(ctx context.Context, workspaceID uint64, keyword string, lastSortValues []interface{}, size int) ([]*MessageES, error)
	IndexMessage(ctx context.Context, msg *MessageES, version int64) error
	DeleteMessage(ctx context.Context, id uint64) error
}

type MessageRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewMessageRepo(client *elasticsearch.TypedClient) MessageRepo {
	return &MessageRepoImpl{client: client}
}

func (s *MessageRepoImpl) SearchMessages(ctx context.Context, workspaceID uint64, keyword string, lastSortValues []interface{}, size int) ([]*MessageES, error) {
	boolQuery := &types.BoolQuery{
		Filter: []types.Query{
			{Term: map[string]types.TermQuery{"workspace_id": {Value: workspaceID}}},
		},
	}
	if keyword != "" {
		boolQuery.Must = []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     keyword,
					Fields:    []string{"content^2", "sender_name"},
					Fuzziness: util.PtrStr("AUTO"),
				},
			},
		}
	}

	req := s.client.Search().
		Index(MessageIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortorder.Desc},
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

	return executeMessageSearch(ctx, req)
}

func (s *MessageRepoImpl) IndexMessage(ctx context.Context, msg *MessageES, version int64) error {
	docID := strconv.FormatUint(msg.ID, 10)

	_, err := s.client.Index(MessageIndex).
		Id(docID).
		Document(msg).
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

func (s *MessageRepoImpl) DeleteMessage(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(MessageIndex, docID).Do(ctx)

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

func executeMessageSearch(ctx context.Context, req *search.Search) ([]*MessageES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*MessageES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var msg MessageES
		if err = json.Unmarshal(hit.Source_, &msg); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			msg.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				msg.Sort[i] = v
			}
		}
		results = append(results, &msg)
	}
	return results, nil
}
