package vectordb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

type UpsertItem struct {
	ID         string
	Vector     []float32
	DocumentID string
	Url        string
	Title      string
	ChunkIndex int64
	Content    string
}

type SearchHit struct {
	ID         string
	Score      float32
	DocumentID string
	Url        string
	Title      string
	ChunkIndex int64
	Content    string
}

// MilvusStore 封装 Milvus SDK 的底层读写，不依赖 domain
type MilvusStore struct {
	cli         mclient.Client
	collection  string
	vectorField string
	metricType  entity.MetricType
	vectorDim   int
	searchParam entity.SearchParam
}

func NewMilvusStore(cli mclient.Client, collection string, vectorDim int, metricType entity.MetricType) (*MilvusStore, error) {
	if cli == nil {
		return nil, errors.New("milvus client is nil")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, errors.New("collection is empty")
	}
	if vectorDim <= 0 {
		return nil, fmt.Errorf("invalid vectorDim: %d", vectorDim)
	}
	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, err
	}
	return &MilvusStore{cli: cli, collection: collection, vectorField: "vector", metricType: metricType, vectorDim: vectorDim, searchParam: sp}, nil
}

// EnsureCollection 幂等创建集合（id/vector/doc_id/url/title/chunk_index/content）并建 AUTOINDEX
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	cols, err := s.cli.ListCollections(ctx)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if c.Name == s.collection {
			return s.cli.LoadCollection(ctx, s.collection, false)
		}
	}

	schema := &entity.Schema{
		CollectionName: s.collection,
		Description:    "WebMind web document chunks",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "128"},
			},
			{
				Name:       "vector",
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{entity.TypeParamDim: fmt.Sprintf("%d", s.vectorDim)},
			},
			{
				Name:       "doc_id",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "36"},
			},
			{
				Name:       "url",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "768"},
			},
			{
				Name:       "title",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "512"},
			},
			{
				Name:     "chunk_index",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:       "content",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "8192"},
			},
		},
	}

	if err := s.cli.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return err
	}

	idx, err := entity.NewIndexAUTOINDEX(s.metricType)
	if err != nil {
		return err
	}
	if err := s.cli.CreateIndex(ctx, s.collection, s.vectorField, idx, false); err != nil {
		return err
	}
	return s.cli.LoadCollection(ctx, s.collection, false)
}

func (s *MilvusStore) Upsert(ctx context.Context, items []UpsertItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(items))
	vectors := make([][]float32, 0, len(items))
	docIDs := make([]string, 0, len(items))
	urls := make([]string, 0, len(items))
	titles := make([]string, 0, len(items))
	chunkIndexes := make([]int64, 0, len(items))
	contents := make([]string, 0, len(items))

	for _, it := range items {
		if it.ID == "" {
			return 0, errors.New("upsert item missing ID")
		}
		if len(it.Vector) != s.vectorDim {
			return 0, fmt.Errorf("vector dim mismatch for id=%s, got=%d want=%d", it.ID, len(it.Vector), s.vectorDim)
		}
		ids = append(ids, it.ID)
		vectors = append(vectors, it.Vector)
		docIDs = append(docIDs, it.DocumentID)
		urls = append(urls, it.Url)
		titles = append(titles, it.Title)
		chunkIndexes = append(chunkIndexes, it.ChunkIndex)
		contents = append(contents, it.Content)
	}

	_, err := s.cli.Upsert(
		ctx,
		s.collection,
		"",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector(s.vectorField, s.vectorDim, vectors),
		entity.NewColumnVarChar("doc_id", docIDs),
		entity.NewColumnVarChar("url", urls),
		entity.NewColumnVarChar("title", titles),
		entity.NewColumnInt64("chunk_index", chunkIndexes),
		entity.NewColumnVarChar("content", contents),
	)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *MilvusStore) DeleteByDocID(ctx context.Context, docID string) error {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return nil
	}
	expr := fmt.Sprintf(`doc_id == "%s"`, docID)
	return s.cli.Delete(ctx, s.collection, "", expr)
}

func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchHit, error) {
	if len(vector) != s.vectorDim {
		return nil, fmt.Errorf("vector dim mismatch, got=%d want=%d", len(vector), s.vectorDim)
	}
	if topK <= 0 {
		topK = 5
	}
	res, err := s.cli.Search(
		ctx,
		s.collection,
		[]string{},
		"",
		[]string{"doc_id", "url", "title", "chunk_index", "content"},
		[]entity.Vector{entity.FloatVector(vector)},
		s.vectorField,
		s.metricType,
		topK,
		s.searchParam,
	)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return []SearchHit{}, nil
	}
	return parseSearchResult(res[0])
}

func parseSearchResult(sr mclient.SearchResult) ([]SearchHit, error) {
	if sr.Err != nil {
		return nil, sr.Err
	}
	hits := make([]SearchHit, 0, sr.ResultCount)

	idCol := sr.IDs
	docIDCol := columnByName(sr.Fields, "doc_id")
	urlCol := columnByName(sr.Fields, "url")
	titleCol := columnByName(sr.Fields, "title")
	chunkIndexCol := columnByName(sr.Fields, "chunk_index")
	contentCol := columnByName(sr.Fields, "content")

	for i := 0; i < sr.ResultCount; i++ {
		id, _ := idCol.GetAsString(i)
		score := float32(0)
		if i < len(sr.Scores) {
			score = sr.Scores[i]
		}

		h := SearchHit{ID: id, Score: score}
		if docIDCol != nil {
			v, _ := docIDCol.GetAsString(i)
			h.DocumentID = v
		}
		if urlCol != nil {
			v, _ := urlCol.GetAsString(i)
			h.Url = v
		}
		if titleCol != nil {
			v, _ := titleCol.GetAsString(i)
			h.Title = v
		}
		if chunkIndexCol != nil {
			v, _ := chunkIndexCol.GetAsInt64(i)
			h.ChunkIndex = v
		}
		if contentCol != nil {
			v, _ := contentCol.GetAsString(i)
			h.Content = v
		}
		hits = append(hits, h)
	}

	return hits, nil
}

func columnByName(cols mclient.ResultSet, name string) entity.Column {
	for _, c := range cols {
		if c != nil && c.Name() == name {
			return c
		}
	}
	return nil
}
