// Package csvio converts candidates to and from the spreadsheet layout the
// recruiting team exchanges. The format is deliberately naive: plain comma
// splits with positional columns and no quoted-field escaping, mirroring
// the sheets it has to round-trip with.
package csvio

import (
	"strings"
	"time"

	"youngtalents/pipeline-service/internal/model"
)

// ImportSource tags candidates created from a spreadsheet upload.
const ImportSource = "Importação CSV"

// Column positions in the intake spreadsheet. The first row is a header.
const (
	colTimestamp = 0
	colName      = 2
	colEmail     = 6
	colPhone     = 7
	colCity      = 8
	colRole      = 9
	colEducation = 10
	colCourses   = 12
)

// Import parses the spreadsheet text into new candidates at initialStatus,
// the funnel's entry stage. Rows with fewer than 3 fields are skipped
// silently; the returned slice length is the import count.
func Import(text, initialStatus string, now time.Time) []model.Candidate {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil
	}

	appliedDate := now.Format("2006-01-02")
	var out []model.Candidate

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		if len(values) < 3 {
			continue
		}

		cand := model.Candidate{
			Name:        fallback(col(values, colName), "Sem Nome"),
			Email:       fallback(col(values, colEmail), "sem-email@exemplo.com"),
			Phone:       col(values, colPhone),
			City:        col(values, colCity),
			Role:        fallback(col(values, colRole), "Banco de Talentos"),
			Status:      initialStatus,
			AppliedDate: appliedDate,
			Source:      ImportSource,
		}
		for _, skill := range []string{col(values, colEducation), col(values, colCourses)} {
			if skill != "" {
				cand.Skills = append(cand.Skills, skill)
			}
		}
		out = append(out, cand)
	}
	return out
}

// Export renders the fixed-column CSV: id, name, email, phone, role,
// status, city, appliedDate. Values are joined as-is — embedded commas or
// quotes are not escaped.
func Export(candidates []model.Candidate) string {
	var b strings.Builder
	b.WriteString("id,name,email,phone,role,status,city,appliedDate\n")
	for _, c := range candidates {
		b.WriteString(strings.Join([]string{
			c.ID, c.Name, c.Email, c.Phone, c.Role, c.Status, c.City, c.AppliedDate,
		}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func col(values []string, i int) string {
	if i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
