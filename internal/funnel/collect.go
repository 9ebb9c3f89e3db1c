package funnel

import (
	"fmt"
	"strings"

	"youngtalents/pipeline-service/internal/model"
)

// FieldKind tells the UI layer which input shape to render for a field.
type FieldKind string

const (
	KindBoolChoice FieldKind = "boolean-choice"
	KindLongText   FieldKind = "long-text"
	KindShortText  FieldKind = "short-text"
)

// FieldSpec is the data-collection contract for one missing field: what to
// ask, how to render it. Rendering itself happens outside this package.
type FieldSpec struct {
	Field Field     `json:"field"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
}

var fieldLabels = map[Field]string{
	FieldCity:             "Cidade onde reside",
	FieldHasDriverLicense: "Possui CNH Tipo B? (Sim/Não)",
	FieldInterestAreas:    "Áreas de Interesse",
	FieldEducation:        "Formação Acadêmica",
	FieldExperience:       "Experiências Anteriores",
	FieldMaritalStatus:    "Estado Civil",
	FieldSource:           "Onde nos encontrou",
	FieldFeedback:         "Feedback / Motivo da Decisão",
}

// Spec returns the collection contract for a single field.
func Spec(f Field) FieldSpec {
	label, ok := fieldLabels[f]
	if !ok {
		label = string(f)
	}
	kind := KindShortText
	switch f {
	case FieldHasDriverLicense:
		kind = KindBoolChoice
	case FieldFeedback, FieldExperience:
		kind = KindLongText
	}
	return FieldSpec{Field: f, Label: label, Kind: kind}
}

// Specs maps a missing-field list to its collection contracts, preserving
// order.
func Specs(fields []Field) []FieldSpec {
	out := make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		out = append(out, Spec(f))
	}
	return out
}

// FieldValue is one collected answer. Boolean-choice fields set Flag, text
// fields set Text; a value with neither is undefined.
type FieldValue struct {
	Text string
	Flag *bool
}

// Submission is the confirmed output of a data-collection interaction.
type Submission map[Field]FieldValue

// ValidateSubmission enforces the all-or-nothing confirmation rule: every
// requested field must carry a defined value (any explicit true/false for
// boolean-choice, trimmed non-empty text otherwise), and the submission may
// not contain fields that were not requested. A failed validation keeps the
// interaction open; nothing is partially applied.
func ValidateSubmission(requested []Field, sub Submission) error {
	requestedSet := make(map[Field]struct{}, len(requested))
	for _, f := range requested {
		requestedSet[f] = struct{}{}

		v, ok := sub[f]
		if !ok {
			return &ValidationError{Msg: fmt.Sprintf("field %q is required", f)}
		}
		if Spec(f).Kind == KindBoolChoice {
			if v.Flag == nil {
				return &ValidationError{Msg: fmt.Sprintf("field %q must be answered yes or no", f)}
			}
			continue
		}
		if strings.TrimSpace(v.Text) == "" {
			return &ValidationError{Msg: fmt.Sprintf("field %q must not be empty", f)}
		}
	}

	for f := range sub {
		if _, ok := requestedSet[f]; !ok {
			return &ValidationError{Msg: fmt.Sprintf("field %q was not requested", f)}
		}
	}
	return nil
}

// applySubmission writes the collected values onto a copy of c. Interest
// areas arrive as a single short-text answer and are split on commas.
func applySubmission(c model.Candidate, requested []Field, sub Submission) model.Candidate {
	out := c.Clone()
	for _, f := range requested {
		v := sub[f]
		switch f {
		case FieldCity:
			out.City = strings.TrimSpace(v.Text)
		case FieldHasDriverLicense:
			if v.Flag != nil {
				flag := *v.Flag
				out.HasDriverLicense = &flag
			}
		case FieldInterestAreas:
			out.InterestAreas = splitList(v.Text)
		case FieldEducation:
			out.Education = strings.TrimSpace(v.Text)
		case FieldExperience:
			out.Experience = strings.TrimSpace(v.Text)
		case FieldMaritalStatus:
			out.MaritalStatus = strings.TrimSpace(v.Text)
		case FieldSource:
			out.Source = strings.TrimSpace(v.Text)
		case FieldFeedback:
			out.Feedback = strings.TrimSpace(v.Text)
		}
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
