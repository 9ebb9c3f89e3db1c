// Package model defines the closed data structures shared across the
// pipeline service. Optional candidate fields are pointers or slices so
// "unset" stays distinguishable from a zero value; there is no open
// attribute map.
package model

import "time"

// Candidate is a single applicant tracked through the hiring funnel.
// Status holds a funnel stage value and must only be changed through the
// funnel coordinator. AIScore/AISummary are advisory — they are never
// required for a stage transition.
type Candidate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	AppliedDate string `json:"appliedDate"`

	// Profile fields acquired progressively as the candidate advances.
	// HasDriverLicense is tri-state: nil means the question was never
	// answered, which is not the same as an explicit false.
	HasDriverLicense  *bool    `json:"hasDriverLicense,omitempty"`
	InterestAreas     []string `json:"interestAreas,omitempty"`
	Education         string   `json:"education,omitempty"`
	Experience        string   `json:"experience,omitempty"`
	MaritalStatus     string   `json:"maritalStatus,omitempty"`
	Source            string   `json:"source,omitempty"`
	Feedback          string   `json:"feedback,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	SalaryExpectation string   `json:"salaryExpectation,omitempty"`
	AboutMe           string   `json:"aboutMe,omitempty"`

	// Internal tracking dates.
	FirstInterviewDate  string `json:"firstInterviewDate,omitempty"`
	TestDate            string `json:"testDate,omitempty"`
	SecondInterviewDate string `json:"secondInterviewDate,omitempty"`

	// AI enrichment output.
	AIScore   *int   `json:"aiScore,omitempty"`
	AISummary string `json:"aiSummary,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so store updates can replace whole records
// without sharing slice or pointer backing with previous readers.
func (c Candidate) Clone() Candidate {
	out := c
	if c.HasDriverLicense != nil {
		v := *c.HasDriverLicense
		out.HasDriverLicense = &v
	}
	if c.AIScore != nil {
		v := *c.AIScore
		out.AIScore = &v
	}
	if c.InterestAreas != nil {
		out.InterestAreas = append([]string(nil), c.InterestAreas...)
	}
	if c.Skills != nil {
		out.Skills = append([]string(nil), c.Skills...)
	}
	return out
}

// Job is a published opening. It is read-only from the pipeline's point of
// view: candidates reference it by Role, and the enrichment client uses its
// description and requirements as scoring context.
type Job struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	PostedDate   string   `json:"postedDate"`
	Active       bool     `json:"active"`
}

// EmailTemplate is an operator-managed message tied to a funnel stage.
// Moving a candidate does not send anything; templates are configuration
// matched against stage names for operator reference.
type EmailTemplate struct {
	ID            string `json:"id"`
	TriggerStatus string `json:"triggerStatus"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	Active        bool   `json:"active"`
}
