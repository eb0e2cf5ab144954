package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/directory"
	"github.com/MarcoPoloResearchLab/teamboard/backend/internal/workforce"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrManagerNotFound indicates the directory has no profile for the manager id.
	ErrManagerNotFound = errors.New("team: manager not found in directory")
	// ErrNotAManager indicates the directory profile exists but lacks manager status.
	ErrNotAManager = errors.New("team: user is not a manager")
	// ErrDirectoryUnavailable indicates the directory call timed out; retryable,
	// distinct from not-found.
	ErrDirectoryUnavailable = errors.New("team: directory unavailable")
	// ErrNotAReportee indicates the requested user is not in the manager's
	// current reportee set per the live directory.
	ErrNotAReportee = errors.New("team: user is not a reportee of this manager")

	errMissingRepository = errors.New("workforce repository is required")
	errMissingDirectory  = errors.New("directory client is required")
)

// ServiceError carries an operation code alongside the underlying cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error { return e.err }

func (e *ServiceError) Code() string { return e.code }

const (
	opServiceNew     = "team.service.new"
	opGetReportees   = "team.get_reportees"
	opGetSummary     = "team.get_summary"
	opCertsSummary   = "team.certifications_summary"
	opReporteeCerts  = "team.reportee_certifications"
	defaultFanout    = 8
	notRegisteredMsg = "User not yet registered in system"
)

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// DirectoryClient is the slice of the directory API the aggregator consumes.
type DirectoryClient interface {
	FetchProfile(ctx context.Context, identifier string) (directory.Profile, error)
}

// ServiceConfig describes the dependencies of the reportee aggregation service.
type ServiceConfig struct {
	Repository *workforce.Repository
	Directory  DirectoryClient
	Logger     *zap.Logger
	// ReporteeConcurrency bounds parallel per-reportee enrichment. Defaults to 8.
	ReporteeConcurrency int
}

// Service composes the external org directory with the local workforce tables
// to answer manager-level aggregation queries. The directory is authoritative
// for the current reportee set on every call; local manager_id columns and the
// manager_employees mapping table are denormalized history and never consulted
// here.
type Service struct {
	repo      *workforce.Repository
	directory DirectoryClient
	logger    *zap.Logger
	fanout    int
}

// NewService constructs the aggregation service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repository == nil {
		return nil, newServiceError(opServiceNew, "missing_repository", errMissingRepository)
	}
	if cfg.Directory == nil {
		return nil, newServiceError(opServiceNew, "missing_directory", errMissingDirectory)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fanout := cfg.ReporteeConcurrency
	if fanout <= 0 {
		fanout = defaultFanout
	}
	return &Service{
		repo:      cfg.Repository,
		directory: cfg.Directory,
		logger:    logger,
		fanout:    fanout,
	}, nil
}

// managerProfile fetches and gates the manager's directory profile, translating
// directory outcomes into the service error taxonomy.
func (s *Service) managerProfile(ctx context.Context, managerID string) (directory.Profile, directory.ManagerInfo, error) {
	profile, err := s.directory.FetchProfile(ctx, managerID)
	if errors.Is(err, directory.ErrDirectoryTimeout) {
		return directory.Profile{}, directory.ManagerInfo{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if errors.Is(err, context.Canceled) {
		return directory.Profile{}, directory.ManagerInfo{}, err
	}
	if err != nil {
		return directory.Profile{}, directory.ManagerInfo{}, fmt.Errorf("%w: %s", ErrManagerNotFound, managerID)
	}

	info := profile.ManagerInfo()
	if !info.IsManager {
		return directory.Profile{}, directory.ManagerInfo{}, fmt.Errorf("%w: %s", ErrNotAManager, managerID)
	}
	return profile, info, nil
}

// GetReportees resolves the manager's current reportee set from the directory
// and enriches each reportee from the local tables. Enrichment runs
// concurrently but the output preserves directory order, and a single
// reportee's failure degrades to an error-tagged entry instead of aborting the
// aggregation.
func (s *Service) GetReportees(ctx context.Context, managerID string, opts Options) (ManagerView, error) {
	profile, info, err := s.managerProfile(ctx, managerID)
	if err != nil {
		return ManagerView{}, err
	}

	reporteeIDs := profile.ReporteeIDs()
	view := ManagerView{
		Manager:       info,
		ReporteeCount: len(reporteeIDs),
		Reportees:     []Reportee{},
	}
	if len(reporteeIDs) == 0 {
		return view, nil
	}

	s.logger.Info("aggregating reportees",
		zap.String("manager_id", managerID),
		zap.Int("reportee_count", len(reporteeIDs)))

	entries := make([]Reportee, len(reporteeIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.fanout)
	for index, reporteeID := range reporteeIDs {
		index, reporteeID := index, reporteeID
		group.Go(func() error {
			entries[index] = s.buildReportee(groupCtx, reporteeID, opts)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return ManagerView{}, newServiceError(opGetReportees, "cancelled", err)
	}

	inDatabase := 0
	for _, entry := range entries {
		if entry.InDatabase {
			inDatabase++
		}
	}
	view.ReporteesInDatabase = inDatabase
	view.Reportees = entries
	return view, nil
}

// buildReportee assembles one composite record. Any store error inside the
// enrichment is caught here and reported per-item (isolation invariant).
func (s *Service) buildReportee(ctx context.Context, reporteeID string, opts Options) Reportee {
	user, present, err := s.repo.UserByID(ctx, reporteeID)
	if err != nil {
		return s.failedReportee(reporteeID, err)
	}
	if !present {
		s.logger.Warn("reportee not found in database", zap.String("reportee_id", reporteeID))
		return Reportee{
			UserID:     reporteeID,
			InDatabase: false,
			Message:    notRegisteredMsg,
		}
	}

	entry := Reportee{
		UserID:     user.UserID,
		Name:       user.Name,
		Email:      user.Email,
		UserType:   user.UserType,
		InDatabase: true,
	}

	if opts.IncludeAssets {
		assets, err := s.repo.AssetsByUser(ctx, reporteeID)
		if err != nil {
			return s.failedReportee(reporteeID, err)
		}
		entry.Assets = assets
		entry.AssetsCount = countOf(len(assets))
	}
	if opts.IncludeSkills {
		skills, err := s.repo.SkillsByUser(ctx, reporteeID)
		if err != nil {
			return s.failedReportee(reporteeID, err)
		}
		entry.Skills = skills
		entry.SkillsCount = countOf(len(skills))
	}
	if opts.IncludeProjects {
		projects, err := s.repo.ProjectsByUser(ctx, reporteeID)
		if err != nil {
			return s.failedReportee(reporteeID, err)
		}
		entry.Projects = projects
		entry.ProjectsCount = countOf(len(projects))
	}
	if opts.IncludeCertifications {
		certs, err := s.repo.CertificationsByUser(ctx, reporteeID)
		if err != nil {
			return s.failedReportee(reporteeID, err)
		}
		entry.Certifications = certs
		entry.CertificationsCount = countOf(len(certs))
	}
	if opts.IncludeEminence {
		records, err := s.repo.EminenceByUser(ctx, reporteeID)
		if err != nil {
			return s.failedReportee(reporteeID, err)
		}
		entry.Eminence = records
		entry.EminenceCount = countOf(len(records))
	}
	return entry
}

func (s *Service) failedReportee(reporteeID string, cause error) Reportee {
	s.logger.Error("reportee enrichment failed",
		zap.String("reportee_id", reporteeID),
		zap.Error(cause))
	return Reportee{
		UserID:     reporteeID,
		InDatabase: false,
		Error:      cause.Error(),
	}
}

// GetSummary returns manager-level aggregate totals using one batched count per
// category, never per-reportee round trips.
func (s *Service) GetSummary(ctx context.Context, managerID string) (Summary, error) {
	profile, info, err := s.managerProfile(ctx, managerID)
	if err != nil {
		return Summary{}, err
	}

	reporteeIDs := profile.ReporteeIDs()
	summary := Summary{
		Manager: info,
		Totals: SummaryTotals{
			TotalReportees: len(reporteeIDs),
			ReporteeIDs:    reporteeIDs,
		},
	}
	if len(reporteeIDs) == 0 {
		return summary, nil
	}

	counts := []struct {
		target *int64
		count  func(context.Context, []string) (int64, error)
		reason string
	}{
		{&summary.Totals.ReporteesInSystem, s.repo.CountUsersIn, "count_users"},
		{&summary.Totals.TotalAssets, s.repo.CountAssetsIn, "count_assets"},
		{&summary.Totals.TotalSkills, s.repo.CountSkillsIn, "count_skills"},
		{&summary.Totals.TotalProjects, s.repo.CountProjectsIn, "count_projects"},
		{&summary.Totals.TotalCertifications, s.repo.CountCertificationsIn, "count_certifications"},
		{&summary.Totals.TotalEminenceRecords, s.repo.CountEminenceIn, "count_eminence"},
	}
	for _, item := range counts {
		value, err := item.count(ctx, reporteeIDs)
		if err != nil {
			return Summary{}, newServiceError(opGetSummary, item.reason, err)
		}
		*item.target = value
	}
	return summary, nil
}

// GetCertificationsSummary returns the grouped certification breakdown for the
// manager's reportees: three grouped queries plus one batched total.
func (s *Service) GetCertificationsSummary(ctx context.Context, managerID string) (CertificationsSummary, error) {
	profile, info, err := s.managerProfile(ctx, managerID)
	if err != nil {
		return CertificationsSummary{}, err
	}

	reporteeIDs := profile.ReporteeIDs()
	summary := CertificationsSummary{
		Manager:       info,
		ReporteeCount: len(reporteeIDs),
		ByReportee:    []workforce.ReporteeCertificationCount{},
		ByType:        []workforce.TypeCount{},
		ByCategory:    []workforce.CategoryCount{},
	}
	if len(reporteeIDs) == 0 {
		return summary, nil
	}

	total, err := s.repo.CountCertificationsIn(ctx, reporteeIDs)
	if err != nil {
		return CertificationsSummary{}, newServiceError(opCertsSummary, "count_total", err)
	}
	summary.TotalCertifications = total

	byReportee, err := s.repo.CertificationCountsByReportee(ctx, reporteeIDs)
	if err != nil {
		return CertificationsSummary{}, newServiceError(opCertsSummary, "group_by_reportee", err)
	}
	if byReportee != nil {
		summary.ByReportee = byReportee
	}

	byType, err := s.repo.CertificationCountsByType(ctx, reporteeIDs)
	if err != nil {
		return CertificationsSummary{}, newServiceError(opCertsSummary, "group_by_type", err)
	}
	if byType != nil {
		summary.ByType = byType
	}

	byCategory, err := s.repo.CertificationCountsByCategory(ctx, reporteeIDs)
	if err != nil {
		return CertificationsSummary{}, newServiceError(opCertsSummary, "group_by_category", err)
	}
	if byCategory != nil {
		summary.ByCategory = byCategory
	}
	return summary, nil
}

// GetReporteeCertifications lists one reportee's certifications after
// re-verifying the manager relationship against the live directory. The
// membership decision is never cached across requests.
func (s *Service) GetReporteeCertifications(ctx context.Context, managerID, reporteeID string) (ReporteeCertifications, error) {
	profile, err := s.directory.FetchProfile(ctx, managerID)
	if errors.Is(err, directory.ErrDirectoryTimeout) {
		return ReporteeCertifications{}, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if errors.Is(err, context.Canceled) {
		return ReporteeCertifications{}, err
	}
	if err != nil {
		return ReporteeCertifications{}, fmt.Errorf("%w: %s", ErrManagerNotFound, managerID)
	}

	member := false
	for _, id := range profile.ReporteeIDs() {
		if id == reporteeID {
			member = true
			break
		}
	}
	if !member {
		return ReporteeCertifications{}, fmt.Errorf("%w: %s under %s", ErrNotAReportee, reporteeID, managerID)
	}

	certs, err := s.repo.CertificationsByUser(ctx, reporteeID)
	if err != nil {
		return ReporteeCertifications{}, newServiceError(opReporteeCerts, "list_certifications", err)
	}

	detail := ReporteeCertifications{
		Reportee: ReporteeRef{
			UserID: reporteeID,
			Name:   "Unknown",
			Email:  "Unknown",
		},
		CertificationCount: len(certs),
		Certifications:     certs,
	}
	if user, present, err := s.repo.UserByID(ctx, reporteeID); err == nil && present {
		detail.Reportee.Name = user.Name
		detail.Reportee.Email = user.Email
	}
	return detail, nil
}

func countOf(n int) *int {
	return &n
}
