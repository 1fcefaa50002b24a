package credex

import "time"

// Record is the normalized extraction of a single project page.
type Record struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Client      string    `json:"client"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Format      string    `json:"format"`
	VideoLinks  []string  `json:"videoLinks"`
	PosterImage string    `json:"posterImage"`
	Companies   []Company `json:"companies"`
	Meta        Meta      `json:"meta"`
}

// PartialRecord is the possibly-incomplete output of a single strategy attempt.
// It has the same shape as Record; every field may be empty.
type PartialRecord = Record

// Meta describes how a Record was produced.
type Meta struct {
	StructureVariant StructureVariant `json:"structureVariant"`
	ExtractionMethod string           `json:"extractionMethod"`
	UnknownRoles     []UnknownRole    `json:"unknownRoles"`
	MissingFields    []MissingField   `json:"missingFields"`
	EscalationsUsed  []string         `json:"escalationsUsed"`
	CreditsEnriched  bool             `json:"creditsEnriched"`
}

// UnknownRole identifies a credited person whose role could not be resolved.
type UnknownRole struct {
	PersonID string `json:"personId"`
	Name     string `json:"name"`
}

// Company is an organization credited on a project.
type Company struct {
	// ID is unique within a Record.
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Type    CompanyType `json:"type"`
	URL     string      `json:"url"`
	Credits []Credit    `json:"credits"`
}

// Credit associates one person with one role.
type Credit struct {
	Person Person `json:"person"`
	Role   string `json:"role"`
}

// Person is a credited individual.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CompanyType classifies a Company.
type CompanyType string

// Known company types.
const (
	CompanyTypeUnknown        CompanyType = ""
	CompanyTypeProduction     CompanyType = "Production"
	CompanyTypeAgency         CompanyType = "Agency"
	CompanyTypeBrand          CompanyType = "Brand"
	CompanyTypePostProduction CompanyType = "PostProduction"
	CompanyTypeSound          CompanyType = "Sound"
	CompanyTypeEditorial      CompanyType = "Editorial"
)

// CreditCount returns the total number of credits across all companies.
func (r *Record) CreditCount() int {
	n := 0
	for _, c := range r.Companies {
		n += len(c.Credits)
	}
	return n
}

// RecordSummary is a lightweight view of a stored Record.
type RecordSummary struct {
	URL              string
	Title            string
	Client           string
	Companies        int
	Credits          int
	ExtractionMethod string
	UpdatedAt        time.Time
}
