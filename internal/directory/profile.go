package directory

// Profile mirrors the slice of the combined profile document this service
// reads. Every nested section is optional upstream; extraction accessors
// degrade to zero values rather than failing on absent hops.
type Profile struct {
	UserID  string         `json:"userId"`
	Content profileContent `json:"content"`
}

type profileContent struct {
	IdentityInfo identitySection `json:"identity_info"`
	TeamInfo     teamSection     `json:"team_info"`
}

type identitySection struct {
	Content identityContent `json:"content"`
}

type identityContent struct {
	NameDisplay       string       `json:"nameDisplay"`
	PreferredIdentity string       `json:"preferredIdentity"`
	EmployeeType      employeeType `json:"employeeType"`
	Dept              deptInfo     `json:"dept"`
	Org               orgInfo      `json:"org"`
}

type employeeType struct {
	IsManager bool `json:"isManager"`
}

type deptInfo struct {
	Code string `json:"code"`
}

type orgInfo struct {
	Title string `json:"title"`
}

type teamSection struct {
	Content teamContent `json:"content"`
}

type teamContent struct {
	Functional reportsGroup `json:"functional"`
}

type reportsGroup struct {
	Reports []string `json:"reports"`
}

// ManagerInfo is the projection of identity fields used by the aggregation
// responses.
type ManagerInfo struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsManager    bool   `json:"is_manager"`
	Department   string `json:"department"`
	Organization string `json:"organization"`
}

// ManagerInfo projects the identity section of the profile. Total: a document
// missing any nested section yields zero values.
func (p Profile) ManagerInfo() ManagerInfo {
	identity := p.Content.IdentityInfo.Content
	return ManagerInfo{
		UserID:       p.UserID,
		Name:         identity.NameDisplay,
		Email:        identity.PreferredIdentity,
		IsManager:    identity.EmployeeType.IsManager,
		Department:   identity.Dept.Code,
		Organization: identity.Org.Title,
	}
}

// ReporteeIDs returns the functional report identifiers in upstream order.
// Absent team data yields an empty, non-nil slice.
func (p Profile) ReporteeIDs() []string {
	reports := p.Content.TeamInfo.Content.Functional.Reports
	if len(reports) == 0 {
		return []string{}
	}
	ids := make([]string, 0, len(reports))
	ids = append(ids, reports...)
	return ids
}
