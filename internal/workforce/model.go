package workforce

import "time"

// User is the locally provisioned record for a directory principal. The primary
// key matches the external directory id, so directory lookups and local rows
// join on the same identifier.
type User struct {
	UserID    string  `gorm:"column:user_id;primaryKey;size:50" json:"user_id"`
	UserType  string  `gorm:"column:user_type;size:50" json:"user_type"`
	Name      string  `gorm:"column:name;size:255" json:"name"`
	Email     string  `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	ManagerID *string `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	IsManager bool    `gorm:"column:is_manager" json:"is_manager"`
}

func (User) TableName() string {
	return "users"
}

// Skill is a catalog entry; per-user proficiency lives in UserSkill.
type Skill struct {
	SkillID          int64  `gorm:"column:skill_id;primaryKey;autoIncrement" json:"skill_id"`
	Platform         string `gorm:"column:platform;size:100" json:"platform"`
	Segment          string `gorm:"column:segment;size:100" json:"segment"`
	ProductPortfolio string `gorm:"column:product_portfolio;size:100" json:"product_portfolio"`
	SpecialityArea   string `gorm:"column:speciality_area;size:100" json:"speciality_area"`
}

func (Skill) TableName() string {
	return "skills"
}

type UserSkill struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           string     `gorm:"column:user_id;size:50;index" json:"user_id"`
	SkillID          *int64     `gorm:"column:skill_id" json:"skill_id,omitempty"`
	ProficiencyLevel string     `gorm:"column:proficiency_level;size:50" json:"proficiency_level"`
	Platform         string     `gorm:"column:platform;size:100" json:"platform"`
	Segment          string     `gorm:"column:segment;size:100" json:"segment"`
	ProductPortfolio string     `gorm:"column:product_portfolio;size:100" json:"product_portfolio,omitempty"`
	SpecialityArea   string     `gorm:"column:speciality_area;size:100" json:"speciality_area,omitempty"`
	ProductLine      string     `gorm:"column:product_line;size:100" json:"product_line,omitempty"`
	ManagerID        *string    `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	Status           string     `gorm:"column:status;size:50" json:"status"`
	SkillType        string     `gorm:"column:skill_type;size:50" json:"skill_type"`
	YearsOfExp       string     `gorm:"column:yoe;size:50" json:"yoe"`
	RecordedAt       *time.Time `gorm:"column:recorded_at" json:"recorded_at,omitempty"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}

type Project struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      string  `gorm:"column:user_id;size:50;index" json:"user_id"`
	ProjectName string  `gorm:"column:project_name;size:255" json:"project_name"`
	ClientName  string  `gorm:"column:client_name;size:255" json:"client_name"`
	TechUsed    string  `gorm:"column:tech_used" json:"tech_used"`
	YourRole    string  `gorm:"column:your_role;size:255" json:"your_role"`
	ProjectDesc string  `gorm:"column:project_desc" json:"project_desc,omitempty"`
	IsFOAK      bool    `gorm:"column:is_foak" json:"is_foak"`
	AssetUsed   string  `gorm:"column:asset_used;size:255" json:"asset_used"`
	AssetName   string  `gorm:"column:asset_name;size:255" json:"asset_name"`
	ManagerID   *string `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	Status      string  `gorm:"column:status;size:50" json:"status"`
}

func (Project) TableName() string {
	return "projects"
}

type Asset struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           string  `gorm:"column:user_id;size:50;index" json:"user_id"`
	AssetName        string  `gorm:"column:asset_name;size:255" json:"asset_name"`
	AssetDesc        string  `gorm:"column:asset_desc" json:"asset_desc"`
	UsedInProject    string  `gorm:"column:used_in_project;size:255" json:"used_in_project"`
	AIAdoption       string  `gorm:"column:ai_adoption;size:100" json:"ai_adoption"`
	YourContribution string  `gorm:"column:your_contribution" json:"your_contribution"`
	ManagerID        *string `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	Status           string  `gorm:"column:status;size:50" json:"status"`
	URL              string  `gorm:"column:url;size:512" json:"url"`
}

func (Asset) TableName() string {
	return "assets"
}

type Certification struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       string     `gorm:"column:user_id;size:50;index" json:"user_id"`
	CertType     string     `gorm:"column:cert_type;size:100" json:"cert_type"`
	CertName     string     `gorm:"column:cert_name;size:255" json:"cert_name"`
	CertCategory string     `gorm:"column:cert_cat;size:100" json:"cert_cat"`
	CertFilePath string     `gorm:"column:cert_file_path;size:512" json:"cert_file_path,omitempty"`
	IssueDate    *time.Time `gorm:"column:issue_date" json:"issue_date,omitempty"`
	ManagerID    *string    `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	Status       string     `gorm:"column:status;size:50" json:"status"`
}

func (Certification) TableName() string {
	return "user_certifications"
}

type EminenceRecord struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       string  `gorm:"column:user_id;size:50;index" json:"user_id"`
	ManagerID    *string `gorm:"column:manager_id;size:50;index" json:"manager_id,omitempty"`
	URL          string  `gorm:"column:url;size:1000" json:"url"`
	EminenceType string  `gorm:"column:eminence_type;size:50;index" json:"eminence_type"`
	Description  string  `gorm:"column:description;size:200" json:"description"`
	Scope        string  `gorm:"column:scope;size:20;index" json:"scope"`
}

func (EminenceRecord) TableName() string {
	return "professional_eminence"
}

// ManagerEmployee is the explicit mapping table for reporting lines. It is a
// denormalized historical record; the external directory stays authoritative
// for current reportee sets.
type ManagerEmployee struct {
	ManagerID        string `gorm:"column:manager_id;primaryKey;size:50" json:"manager_id"`
	EmployeeID       string `gorm:"column:employee_id;primaryKey;size:50" json:"employee_id"`
	Platform         string `gorm:"column:platform;size:50" json:"platform"`
	Segment          string `gorm:"column:segment;size:50" json:"segment"`
	ProductPortfolio string `gorm:"column:product_portfolio;size:50" json:"product_portfolio"`
	SpecialityArea   string `gorm:"column:speciality_area;size:50" json:"speciality_area"`
}

func (ManagerEmployee) TableName() string {
	return "manager_employees"
}

type Request struct {
	RequestID      int64      `gorm:"column:request_id;primaryKey;autoIncrement" json:"request_id"`
	ManagerID      *string    `gorm:"column:manager_id;size:50" json:"manager_id,omitempty"`
	UserID         string     `gorm:"column:user_id;size:50;index" json:"user_id"`
	SubmissionDate *time.Time `gorm:"column:submission_date" json:"submission_date,omitempty"`
	Status         string     `gorm:"column:status;size:50" json:"status"`
	RequestData    string     `gorm:"column:request_data" json:"request_data"`
	SectionType    string     `gorm:"column:section_type;size:50" json:"section_type"`
}

func (Request) TableName() string {
	return "requests"
}

// Models lists every table owned by this package in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Skill{},
		&UserSkill{},
		&Project{},
		&Asset{},
		&Certification{},
		&EminenceRecord{},
		&ManagerEmployee{},
		&Request{},
	}
}
