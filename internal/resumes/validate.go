package resumes

import (
	"fmt"
	"net/mail"
	"strings"
)

// validateResume checks required fields across the whole record,
// including embedded section entries, and collects every violation.
func validateResume(r Resume) error {
	v := &ValidationError{}

	requireField(v, "title", r.Title, "Title is required")
	requireField(v, "personalInfo.firstName", r.PersonalInfo.FirstName, "First name is required")
	requireField(v, "personalInfo.lastName", r.PersonalInfo.LastName, "Last name is required")
	if !validEmail(r.PersonalInfo.Email) {
		v.add("personalInfo.email", "Valid email is required")
	}

	for i, e := range r.Education {
		requireField(v, fmt.Sprintf("education[%d].institution", i), e.Institution, "Institution is required")
		requireField(v, fmt.Sprintf("education[%d].degree", i), e.Degree, "Degree is required")
		requireField(v, fmt.Sprintf("education[%d].startDate", i), e.StartDate, "Start date is required")
	}
	for i, e := range r.Experience {
		requireField(v, fmt.Sprintf("experience[%d].company", i), e.Company, "Company is required")
		requireField(v, fmt.Sprintf("experience[%d].position", i), e.Position, "Position is required")
		requireField(v, fmt.Sprintf("experience[%d].startDate", i), e.StartDate, "Start date is required")
		requireField(v, fmt.Sprintf("experience[%d].description", i), e.Description, "Description is required")
	}
	for i, s := range r.Skills {
		requireField(v, fmt.Sprintf("skills[%d].name", i), s.Name, "Skill name is required")
	}
	for i, p := range r.Projects {
		requireField(v, fmt.Sprintf("projects[%d].name", i), p.Name, "Project name is required")
		requireField(v, fmt.Sprintf("projects[%d].description", i), p.Description, "Description is required")
	}
	for i, c := range r.Certifications {
		requireField(v, fmt.Sprintf("certifications[%d].name", i), c.Name, "Certification name is required")
		requireField(v, fmt.Sprintf("certifications[%d].issuer", i), c.Issuer, "Issuer is required")
		requireField(v, fmt.Sprintf("certifications[%d].date", i), c.Date, "Date is required")
	}
	for i, l := range r.Languages {
		requireField(v, fmt.Sprintf("languages[%d].name", i), l.Name, "Language name is required")
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

func requireField(v *ValidationError, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
