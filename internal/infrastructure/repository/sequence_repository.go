package repository

import (
	"context"
	"regexp"
	"strings"

	domainRepo "github.com/sangkips/dairy-coop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

// ListByPrefix reads raw table rows, so soft-deleted identifiers are never handed out again.
// Only values whose remainder after prefix is all digits are returned, so custom codes
// sharing the prefix cannot push generated ones out of the limit.
func (r *sequenceRepository) ListByPrefix(ctx context.Context, target domainRepo.SequenceTarget, prefix string, limit int) ([]string, error) {
	var values []string
	col := target.Column
	query := conn(ctx, r.db).Table(target.Table)

	switch r.db.Dialector.Name() {
	case "sqlite":
		query = query.
			Where(col+" GLOB ?", globQuote(prefix)+"[0-9]*").
			Where("substr("+col+", ?) NOT GLOB '*[^0-9]*'", len(prefix)+1)
	case "postgres":
		query = query.Where(col+" ~ ?", digitSuffixPattern(prefix))
	case "mysql":
		query = query.Where(col+" REGEXP BINARY ?", digitSuffixPattern(prefix))
	default:
		query = query.Where(col+" LIKE ?", prefix+"%")
	}

	err := query.
		Order("LENGTH(" + col + ") DESC").
		Order(col + " DESC").
		Limit(limit).
		Pluck(col, &values).Error
	return values, err
}

func (r *sequenceRepository) Exists(ctx context.Context, target domainRepo.SequenceTarget, value string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Table(target.Table).
		Where(target.Column+" = ?", value).
		Count(&count).Error
	return count > 0, err
}

func digitSuffixPattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix) + "[0-9]+$"
}

// globQuote escapes GLOB metacharacters by wrapping each in a character class
func globQuote(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
