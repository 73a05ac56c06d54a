package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("request not found")
	ErrStore    = errors.New("request store unavailable")
)

// ListFilter selects which requests List returns.
type ListFilter struct {
	// UserID restricts the result to one owner. Zero means every owner.
	UserID int64
	// WithUser loads the submitting user alongside each request.
	WithUser bool
	// Query is a case-insensitive substring matched against department,
	// status and the submitter's first and last name. Requires WithUser.
	Query string
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Request, error)
	Create(ctx context.Context, req *Request) error
	UpdateStatus(ctx context.Context, id int64, status Status) (*Request, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a GORM-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Request, error) {
	q := r.db.WithContext(ctx).Model(&Request{})

	if f.WithUser {
		q = q.Joins("User")
		if term := strings.TrimSpace(f.Query); term != "" {
			like := "%" + escapeLike(term) + "%"
			q = q.Where(
				`department ILIKE ? OR status ILIKE ? OR "User".first_name ILIKE ? OR "User".last_name ILIKE ?`,
				like, like, like, like,
			)
		}
	}
	if f.UserID != 0 {
		q = q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"}, Value: f.UserID})
	}

	var out []Request
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"},
		Desc:   true,
	}).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list requests: %v", ErrStore, err)
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("%w: create request: %v", ErrStore, err)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Request{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&req, id).Error
	})
	switch {
	case err == nil:
		return &req, nil
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("update request %d: %w", id, ErrNotFound)
	default:
		return nil, fmt.Errorf("%w: update request %d: %v", ErrStore, id, err)
	}
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&Request{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete request %d: %v", ErrStore, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete request %d: %w", id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
