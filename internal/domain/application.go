package domain

import (
	"strings"
)

// ApplicationStatus is the review state of a submitted tool.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// Valid reports whether s is one of the three review states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseApplicationStatus accepts any casing of a status name.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", E(CodeInvalidArgument, "parse status", "잘못된 상태 값입니다: "+raw, ErrInvalidRequest)
	}
	return status, nil
}

// Applicant is the user who submitted an application.
type Applicant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Application is a user-submitted request to add a tool.
type Application struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	SubTitle     string            `json:"subTitle,omitempty"`
	Origin       string            `json:"origin,omitempty"`
	URL          string            `json:"url,omitempty"`
	Logo         string            `json:"logo,omitempty"`
	Description  string            `json:"description,omitempty"`
	Status       ApplicationStatus `json:"status"`
	AppliedAt    LocalDateTime     `json:"appliedAt"`
	ProcessedAt  *LocalDateTime    `json:"processedAt,omitempty"`
	RejectReason string            `json:"rejectReason,omitempty"`
	Applicant    Applicant         `json:"applicant"`
	Categories   []string          `json:"categories,omitempty"`
}

// Clone returns a deep copy of the application.
func (a Application) Clone() Application {
	out := a
	if a.ProcessedAt != nil {
		processed := *a.ProcessedAt
		out.ProcessedAt = &processed
	}
	if a.Categories != nil {
		out.Categories = append([]string(nil), a.Categories...)
	}
	return out
}

// ApplicationRequest is the body of POST /api/tools/applications.
type ApplicationRequest struct {
	Name       string   `json:"name"`
	SubTitle   string   `json:"subTitle,omitempty"`
	Categories []string `json:"categories"`
	Origin     string   `json:"origin,omitempty"`
	URL        string   `json:"url"`
	Logo       string   `json:"logo,omitempty"`
	Long       string   `json:"long"`
}

// ApplicationCreated is the backend acknowledgement of a submission.
type ApplicationCreated struct {
	ApplicationID int64 `json:"applicationId"`
}

// StatusUpdate is the body of PATCH /api/admin/ai-applications/{id}/status.
type StatusUpdate struct {
	Status       ApplicationStatus `json:"status"`
	RejectReason string            `json:"rejectReason,omitempty"`
}
