package funnel

import (
	"strings"

	"youngtalents/pipeline-service/internal/model"
)

// Field identifies a candidate attribute the data-collection step can ask
// for. Values match the Candidate JSON field names.
type Field string

const (
	FieldCity             Field = "city"
	FieldHasDriverLicense Field = "hasDriverLicense"
	FieldInterestAreas    Field = "interestAreas"
	FieldEducation        Field = "education"
	FieldExperience       Field = "experience"
	FieldMaritalStatus    Field = "maritalStatus"
	FieldSource           Field = "source"
	FieldFeedback         Field = "feedback"
)

// MissingFields returns, in rule order, the fields that must be collected
// before c may enter target. An empty result means the move can be applied
// immediately. Fields already populated on the candidate are never
// re-requested, and rules for different targets never overlap.
func MissingFields(c model.Candidate, target Stage) []Field {
	var missing []Field

	switch {
	case target == StageConsiderado:
		if strings.TrimSpace(c.City) == "" {
			missing = append(missing, FieldCity)
		}
		// Explicit false counts as answered; only nil is missing.
		if c.HasDriverLicense == nil {
			missing = append(missing, FieldHasDriverLicense)
		}

	case target == StageEntrevistaI:
		if len(c.InterestAreas) == 0 {
			missing = append(missing, FieldInterestAreas)
		}
		if strings.TrimSpace(c.Education) == "" {
			missing = append(missing, FieldEducation)
		}
		if strings.TrimSpace(c.Experience) == "" {
			missing = append(missing, FieldExperience)
		}
		if strings.TrimSpace(c.MaritalStatus) == "" {
			missing = append(missing, FieldMaritalStatus)
		}
		if strings.TrimSpace(c.Source) == "" {
			missing = append(missing, FieldSource)
		}

	case IsClosing(target):
		// Any closing decision must be justified, whatever the origin stage.
		if strings.TrimSpace(c.Feedback) == "" {
			missing = append(missing, FieldFeedback)
		}
	}

	return missing
}
