package resumes

import "time"

// Defaults applied to section entries when the client omits them,
// mirroring what the editing UI pre-selects.
const (
	DefaultSkillLevel          = "Intermediate"
	DefaultSkillCategory       = "Technical"
	DefaultLanguageProficiency = "Professional"
)

// PersonalInfo is the contact block of a resume. First name, last name
// and email are required; everything else is optional profile detail.
type PersonalInfo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
	Country        string `json:"country,omitempty"`
	Linkedin       string `json:"linkedin,omitempty"`
	Github         string `json:"github,omitempty"`
	Website        string `json:"website,omitempty"`
	Summary        string `json:"summary,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate,omitempty"`
	GPA          string `json:"gpa,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements,omitempty"`
}

type Skill struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	GithubURL    string   `json:"githubUrl,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Resume is the persisted record. The owning user ID is never included
// in JSON projections, so responses cannot disclose ownership.
type Resume struct {
	ID             string          `json:"id"`
	UserID         string          `json:"-"`
	Title          string          `json:"title"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	IsDefault      bool            `json:"isDefault"`
	IsPublic       bool            `json:"isPublic"`
	PublicSlug     string          `json:"publicSlug,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// clone returns a deep copy so repository-held state cannot be mutated
// through returned values. Section slices come back non-nil, which also
// keeps JSON output as [] instead of null.
func (r Resume) clone() Resume {
	out := r
	out.Education = make([]Education, len(r.Education))
	copy(out.Education, r.Education)
	out.Experience = make([]Experience, len(r.Experience))
	copy(out.Experience, r.Experience)
	for i := range out.Experience {
		out.Experience[i].Achievements = append([]string(nil), r.Experience[i].Achievements...)
	}
	out.Skills = make([]Skill, len(r.Skills))
	copy(out.Skills, r.Skills)
	out.Projects = make([]Project, len(r.Projects))
	copy(out.Projects, r.Projects)
	for i := range out.Projects {
		out.Projects[i].Technologies = append([]string(nil), r.Projects[i].Technologies...)
	}
	out.Certifications = make([]Certification, len(r.Certifications))
	copy(out.Certifications, r.Certifications)
	out.Languages = make([]Language, len(r.Languages))
	copy(out.Languages, r.Languages)
	return out
}
