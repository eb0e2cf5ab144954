package workforce

import (
	"context"
)

// Pagination limits list endpoints. Zero values fall back to the defaults the
// HTTP surface documents.
type Pagination struct {
	Offset int
	Limit  int
}

const defaultListLimit = 100

func (p Pagination) normalize() (int, int) {
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	limit := p.Limit
	if limit <= 0 || limit > 500 {
		limit = defaultListLimit
	}
	return offset, limit
}

func listRows[T any](ctx context.Context, r *Repository, page Pagination) ([]T, error) {
	offset, limit := page.normalize()
	var rows []T
	err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&rows).Error
	return rows, err
}

func getRow[T any](ctx context.Context, r *Repository, query string, args ...interface{}) (T, error) {
	var row T
	err := r.db.WithContext(ctx).Where(query, args...).Take(&row).Error
	if err != nil {
		var zero T
		return zero, translate(err)
	}
	return row, nil
}

func createRow[T any](ctx context.Context, r *Repository, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func saveRow[T any](ctx context.Context, r *Repository, row *T) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func deleteRows[T any](ctx context.Context, r *Repository, query string, args ...interface{}) error {
	var model T
	result := r.db.WithContext(ctx).Where(query, args...).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (r *Repository) ListUsers(ctx context.Context, page Pagination) ([]User, error) {
	return listRows[User](ctx, r, page)
}

func (r *Repository) GetUser(ctx context.Context, userID string) (User, error) {
	return getRow[User](ctx, r, "user_id = ?", userID)
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	return createRow(ctx, r, user)
}

func (r *Repository) SaveUser(ctx context.Context, user *User) error {
	return saveRow(ctx, r, user)
}

func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	return deleteRows[User](ctx, r, "user_id = ?", userID)
}

// Skills catalog

func (r *Repository) ListSkills(ctx context.Context, page Pagination) ([]Skill, error) {
	return listRows[Skill](ctx, r, page)
}

func (r *Repository) GetSkill(ctx context.Context, skillID int64) (Skill, error) {
	return getRow[Skill](ctx, r, "skill_id = ?", skillID)
}

func (r *Repository) CreateSkill(ctx context.Context, skill *Skill) error {
	return createRow(ctx, r, skill)
}

func (r *Repository) SaveSkill(ctx context.Context, skill *Skill) error {
	return saveRow(ctx, r, skill)
}

func (r *Repository) DeleteSkill(ctx context.Context, skillID int64) error {
	return deleteRows[Skill](ctx, r, "skill_id = ?", skillID)
}

// User skills

func (r *Repository) ListUserSkills(ctx context.Context, page Pagination) ([]UserSkill, error) {
	return listRows[UserSkill](ctx, r, page)
}

func (r *Repository) GetUserSkill(ctx context.Context, id int64) (UserSkill, error) {
	return getRow[UserSkill](ctx, r, "id = ?", id)
}

func (r *Repository) CreateUserSkill(ctx context.Context, row *UserSkill) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveUserSkill(ctx context.Context, row *UserSkill) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteUserSkill(ctx context.Context, id int64) error {
	return deleteRows[UserSkill](ctx, r, "id = ?", id)
}

// Projects

func (r *Repository) ListProjects(ctx context.Context, page Pagination) ([]Project, error) {
	return listRows[Project](ctx, r, page)
}

func (r *Repository) GetProject(ctx context.Context, id int64) (Project, error) {
	return getRow[Project](ctx, r, "id = ?", id)
}

func (r *Repository) CreateProject(ctx context.Context, row *Project) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveProject(ctx context.Context, row *Project) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteProject(ctx context.Context, id int64) error {
	return deleteRows[Project](ctx, r, "id = ?", id)
}

// Assets

func (r *Repository) ListAssets(ctx context.Context, page Pagination) ([]Asset, error) {
	return listRows[Asset](ctx, r, page)
}

func (r *Repository) GetAsset(ctx context.Context, id int64) (Asset, error) {
	return getRow[Asset](ctx, r, "id = ?", id)
}

func (r *Repository) CreateAsset(ctx context.Context, row *Asset) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveAsset(ctx context.Context, row *Asset) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteAsset(ctx context.Context, id int64) error {
	return deleteRows[Asset](ctx, r, "id = ?", id)
}

// Certifications

func (r *Repository) ListCertifications(ctx context.Context, page Pagination) ([]Certification, error) {
	return listRows[Certification](ctx, r, page)
}

func (r *Repository) GetCertification(ctx context.Context, id int64) (Certification, error) {
	return getRow[Certification](ctx, r, "id = ?", id)
}

func (r *Repository) CreateCertification(ctx context.Context, row *Certification) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveCertification(ctx context.Context, row *Certification) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteCertification(ctx context.Context, id int64) error {
	return deleteRows[Certification](ctx, r, "id = ?", id)
}

// Professional eminence

func (r *Repository) ListEminenceRecords(ctx context.Context, page Pagination) ([]EminenceRecord, error) {
	return listRows[EminenceRecord](ctx, r, page)
}

func (r *Repository) GetEminenceRecord(ctx context.Context, id int64) (EminenceRecord, error) {
	return getRow[EminenceRecord](ctx, r, "id = ?", id)
}

func (r *Repository) CreateEminenceRecord(ctx context.Context, row *EminenceRecord) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveEminenceRecord(ctx context.Context, row *EminenceRecord) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteEminenceRecord(ctx context.Context, id int64) error {
	return deleteRows[EminenceRecord](ctx, r, "id = ?", id)
}

// Manager-employee mapping

func (r *Repository) ListManagerEmployees(ctx context.Context, page Pagination) ([]ManagerEmployee, error) {
	return listRows[ManagerEmployee](ctx, r, page)
}

// EmployeesUnderManager returns the mapping rows recorded for one manager.
func (r *Repository) EmployeesUnderManager(ctx context.Context, managerID string) ([]ManagerEmployee, error) {
	var rows []ManagerEmployee
	err := r.db.WithContext(ctx).Where("manager_id = ?", managerID).Find(&rows).Error
	return rows, err
}

func (r *Repository) GetManagerEmployee(ctx context.Context, managerID, employeeID string) (ManagerEmployee, error) {
	return getRow[ManagerEmployee](ctx, r, "manager_id = ? AND employee_id = ?", managerID, employeeID)
}

func (r *Repository) CreateManagerEmployee(ctx context.Context, row *ManagerEmployee) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveManagerEmployee(ctx context.Context, row *ManagerEmployee) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteManagerEmployee(ctx context.Context, managerID, employeeID string) error {
	return deleteRows[ManagerEmployee](ctx, r, "manager_id = ? AND employee_id = ?", managerID, employeeID)
}

// Requests

func (r *Repository) ListRequests(ctx context.Context, page Pagination) ([]Request, error) {
	return listRows[Request](ctx, r, page)
}

func (r *Repository) GetRequest(ctx context.Context, id int64) (Request, error) {
	return getRow[Request](ctx, r, "request_id = ?", id)
}

func (r *Repository) CreateRequest(ctx context.Context, row *Request) error {
	return createRow(ctx, r, row)
}

func (r *Repository) SaveRequest(ctx context.Context, row *Request) error {
	return saveRow(ctx, r, row)
}

func (r *Repository) DeleteRequest(ctx context.Context, id int64) error {
	return deleteRows[Request](ctx, r, "request_id = ?", id)
}
