package rag

import (
	"database/sql"
	"time"
)

// Document 记录一个 URL 的摄取生命周期与元数据
//
// 状态机：pending → processing → {completed | failed}
// 唯一的回退边是 failed → pending（显式重试触发，同时清空 error_message）。
type Document struct {
	Id           string         `gorm:"column:id;type:char(36);primaryKey"`
	Url          string         `gorm:"column:url;type:varchar(768);not null;uniqueIndex:uniq_document_url"`
	Title        sql.NullString `gorm:"column:title;type:varchar(512)"`
	Status       string         `gorm:"column:status;type:varchar(20);not null;default:pending;index:idx_document_status"`
	ErrorMessage sql.NullString `gorm:"column:error_message;type:varchar(255)"`
	ChunkCount   int            `gorm:"column:chunk_count;type:int;not null;default:0"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:datetime;not null"`
}

func (Document) TableName() string { return "documents" }

const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// IsValidStatus 校验状态过滤参数
func IsValidStatus(s string) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
		return true
	}
	return false
}
