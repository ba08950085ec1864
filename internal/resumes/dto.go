package resumes

// CreateRequest is the payload for creating a resume.
type CreateRequest struct {
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
}

// UpdateRequest is a partial resume payload. Nil fields are left
// untouched; a present section replaces that section wholesale.
type UpdateRequest struct {
	Title          *string          `json:"title"`
	PersonalInfo   *PersonalInfo    `json:"personalInfo"`
	Education      *[]Education     `json:"education"`
	Experience     *[]Experience    `json:"experience"`
	Skills         *[]Skill         `json:"skills"`
	Projects       *[]Project       `json:"projects"`
	Certifications *[]Certification `json:"certifications"`
	Languages      *[]Language      `json:"languages"`
	IsDefault      *bool            `json:"isDefault"`
	IsPublic       *bool            `json:"isPublic"`
}
