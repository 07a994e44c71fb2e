package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"WebMind/internal/modules/rag/domain/rag"
	"WebMind/internal/modules/rag/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) repository.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

func (r *documentRepositoryImpl) Submit(ctx context.Context, url string) (*rag.Document, bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, false, rag.NewError(rag.ErrKindConfiguration, "url is empty")
	}

	existing, err := r.GetByURL(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now()
	doc := &rag.Document{
		Id:        uuid.NewString(),
		Url:       url,
		Status:    rag.DocumentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		// URL 唯一约束兜底：并发竞争的失败方重读胜出方的行
		winner, rerr := r.GetByURL(ctx, url)
		if rerr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, err
	}
	return doc, true, nil
}

func (r *documentRepositoryImpl) TryMarkProcessing(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&rag.Document{}).
		Where("id = ? AND status = ?", id, rag.DocumentStatusPending).
		Updates(map[string]any{"status": rag.DocumentStatusProcessing, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (r *documentRepositoryImpl) MarkCompleted(ctx context.Context, id string, title string, chunkCount int) error {
	if chunkCount < 0 {
		chunkCount = 0
	}
	updates := map[string]any{
		"status":        rag.DocumentStatusCompleted,
		"title":         truncate(title, 512),
		"error_message": "",
		"chunk_count":   chunkCount,
		"updated_at":    time.Now(),
	}
	return r.db.WithContext(ctx).Model(&rag.Document{}).Where("id = ?", id).Updates(updates).Error
}

func (r *documentRepositoryImpl) MarkFailed(ctx context.Context, id string, errMsg string) error {
	updates := map[string]any{
		"status":        rag.DocumentStatusFailed,
		"error_message": truncate(strings.TrimSpace(errMsg), 255),
		"updated_at":    time.Now(),
	}
	return r.db.WithContext(ctx).Model(&rag.Document{}).Where("id = ?", id).Updates(updates).Error
}

func (r *documentRepositoryImpl) TryMarkRetrying(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&rag.Document{}).
		Where("id = ? AND status = ?", id, rag.DocumentStatusFailed).
		Updates(map[string]any{
			"status":        rag.DocumentStatusPending,
			"error_message": "",
			"updated_at":    time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (*rag.Document, error) {
	var doc rag.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func (r *documentRepositoryImpl) GetByURL(ctx context.Context, url string) (*rag.Document, error) {
	var doc rag.Document
	err := r.db.WithContext(ctx).Where("url = ?", url).Take(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func (r *documentRepositoryImpl) List(ctx context.Context, statusFilter string, limit, offset int) ([]rag.Document, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&rag.Document{})
	if statusFilter = strings.TrimSpace(statusFilter); statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []rag.Document
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func truncate(s string, max int) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	if len(s) > max {
		s = s[:max]
	}
	return sql.NullString{String: s, Valid: true}
}
