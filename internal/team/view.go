package team

import (
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/directory"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
)

// Options selects which per-reportee sections GetReportees attaches.
type Options struct {
	IncludeSkills         bool
	IncludeProjects       bool
	IncludeAssets         bool
	IncludeCertifications bool
	IncludeEminence       bool
}

// DefaultOptions enables every section except professional eminence.
func DefaultOptions() Options {
	return Options{
		IncludeSkills:         true,
		IncludeProjects:       true,
		IncludeAssets:         true,
		IncludeCertifications: true,
		IncludeEminence:       false,
	}
}

// Reportee is the composite record for one directory reportee. Section slices
// and counts are present only when the corresponding option was enabled; stub
// entries for locally unknown or failed reportees carry Message or Error.
type Reportee struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	UserType   string `json:"user_type,omitempty"`
	InDatabase bool   `json:"in_database"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`

	Assets              []workforce.Asset          `json:"assets,omitempty"`
	AssetsCount         *int                       `json:"assets_count,omitempty"`
	Skills              []workforce.UserSkill      `json:"skills,omitempty"`
	SkillsCount         *int                       `json:"skills_count,omitempty"`
	Projects            []workforce.Project        `json:"projects,omitempty"`
	ProjectsCount       *int                       `json:"projects_count,omitempty"`
	Certifications      []workforce.Certification  `json:"certifications,omitempty"`
	CertificationsCount *int                       `json:"certifications_count,omitempty"`
	Eminence            []workforce.EminenceRecord `json:"professional_eminence,omitempty"`
	EminenceCount       *int                       `json:"eminence_count,omitempty"`
}

// ManagerView is the full aggregation response for one manager.
type ManagerView struct {
	Manager             directory.ManagerInfo `json:"manager"`
	ReporteeCount       int                   `json:"reportee_count"`
	ReporteesInDatabase int                   `json:"reportees_in_database"`
	Reportees           []Reportee            `json:"reportees"`
}

// SummaryTotals holds the batched per-category counts.
type SummaryTotals struct {
	TotalReportees       int      `json:"total_reportees"`
	ReporteesInSystem    int64    `json:"reportees_in_system"`
	TotalAssets          int64    `json:"total_assets"`
	TotalSkills          int64    `json:"total_skills"`
	TotalProjects        int64    `json:"total_projects"`
	TotalCertifications  int64    `json:"total_certifications"`
	TotalEminenceRecords int64    `json:"total_eminence_records"`
	ReporteeIDs          []string `json:"reportee_ids,omitempty"`
}

// Summary is the counts-only manager view.
type Summary struct {
	Manager directory.ManagerInfo `json:"manager"`
	Totals  SummaryTotals         `json:"summary"`
}

// CertificationsSummary is the grouped certification breakdown for a manager's
// reportees.
type CertificationsSummary struct {
	Manager             directory.ManagerInfo                  `json:"manager"`
	ReporteeCount       int                                    `json:"reportee_count"`
	TotalCertifications int64                                  `json:"total_certifications"`
	ByReportee          []workforce.ReporteeCertificationCount `json:"certifications_by_reportee"`
	ByType              []workforce.TypeCount                  `json:"certifications_by_type"`
	ByCategory          []workforce.CategoryCount              `json:"certifications_by_category"`
}

// ReporteeRef identifies the reportee in single-reportee detail responses.
type ReporteeRef struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ReporteeCertifications is the single-reportee certification detail.
type ReporteeCertifications struct {
	Reportee           ReporteeRef               `json:"reportee"`
	CertificationCount int                       `json:"certification_count"`
	Certifications     []workforce.Certification `json:"certifications"`
}
