package workforce

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrMissingDatabase indicates the repository was constructed without a handle.
	ErrMissingDatabase = errors.New("workforce: database handle is required")
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("workforce: record not found")
)

// Repository provides data access over the workforce tables. Reads used by the
// aggregation path degrade only on gorm.ErrRecordNotFound; every other store
// error propagates to the caller.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a Repository over the provided gorm handle.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, ErrMissingDatabase
	}
	return &Repository{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// UserByID returns the local user row for the given directory id. The second
// return reports presence so absent rows are a normal outcome, not an error.
func (r *Repository) UserByID(ctx context.Context, userID string) (User, bool, error) {
	var user User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("workforce: user lookup: %w", err)
	}
	return user, true, nil
}

func (r *Repository) AssetsByUser(ctx context.Context, userID string) ([]Asset, error) {
	var rows []Asset
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) SkillsByUser(ctx context.Context, userID string) ([]UserSkill, error) {
	var rows []UserSkill
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) ProjectsByUser(ctx context.Context, userID string) ([]Project, error) {
	var rows []Project
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) CertificationsByUser(ctx context.Context, userID string) ([]Certification, error) {
	var rows []Certification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) EminenceByUser(ctx context.Context, userID string) ([]EminenceRecord, error) {
	var rows []EminenceRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *Repository) countIn(ctx context.Context, model interface{}, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("user_id IN ?", userIDs).Count(&count).Error
	return count, err
}

// CountUsersIn reports how many of the given directory ids have local rows.
func (r *Repository) CountUsersIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &User{}, userIDs)
}

func (r *Repository) CountAssetsIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &Asset{}, userIDs)
}

func (r *Repository) CountSkillsIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &UserSkill{}, userIDs)
}

func (r *Repository) CountProjectsIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &Project{}, userIDs)
}

func (r *Repository) CountCertificationsIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &Certification{}, userIDs)
}

func (r *Repository) CountEminenceIn(ctx context.Context, userIDs []string) (int64, error) {
	return r.countIn(ctx, &EminenceRecord{}, userIDs)
}

// ReporteeCertificationCount is one row of the per-reportee certification
// breakdown, joined against the local user record for name and email.
type ReporteeCertificationCount struct {
	UserID    string `gorm:"column:user_id" json:"user_id"`
	Name      string `gorm:"column:name" json:"name"`
	Email     string `gorm:"column:email" json:"email"`
	CertCount int64  `gorm:"column:cert_count" json:"certification_count"`
}

func (r *Repository) CertificationCountsByReportee(ctx context.Context, userIDs []string) ([]ReporteeCertificationCount, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []ReporteeCertificationCount
	err := r.db.WithContext(ctx).
		Model(&Certification{}).
		Select("user_certifications.user_id, users.name, users.email, COUNT(user_certifications.id) AS cert_count").
		Joins("JOIN users ON users.user_id = user_certifications.user_id").
		Where("user_certifications.user_id IN ?", userIDs).
		Group("user_certifications.user_id, users.name, users.email").
		Scan(&rows).Error
	return rows, err
}

// TypeCount is a grouped certification bucket keyed by certification type.
type TypeCount struct {
	CertType string `gorm:"column:label" json:"cert_type"`
	Count    int64  `gorm:"column:count" json:"count"`
}

// CategoryCount is a grouped certification bucket keyed by certification
// category.
type CategoryCount struct {
	CertCategory string `gorm:"column:label" json:"cert_category"`
	Count        int64  `gorm:"column:count" json:"count"`
}

func certificationCountsBy[T any](ctx context.Context, r *Repository, column string, userIDs []string) ([]T, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var rows []T
	err := r.db.WithContext(ctx).
		Model(&Certification{}).
		Select(fmt.Sprintf("%s AS label, COUNT(id) AS count", column)).
		Where("user_id IN ?", userIDs).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", column, column)).
		Group(column).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) CertificationCountsByType(ctx context.Context, userIDs []string) ([]TypeCount, error) {
	return certificationCountsBy[TypeCount](ctx, r, "cert_type", userIDs)
}

func (r *Repository) CertificationCountsByCategory(ctx context.Context, userIDs []string) ([]CategoryCount, error) {
	return certificationCountsBy[CategoryCount](ctx, r, "cert_cat", userIDs)
}
