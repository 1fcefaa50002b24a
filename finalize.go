package credex

import (
	"strconv"
	"strings"
)

// companyTypeKeywords maps name keywords to company types. Checked in order;
// the first entry with a matching keyword wins.
var companyTypeKeywords = []struct {
	typ      CompanyType
	keywords []string
}{
	{CompanyTypePostProduction, []string{"post-production", "post production", "postproduction", "vfx", "effects", "post"}},
	{CompanyTypeProduction, []string{"production", "films", "pictures", "studios"}},
	{CompanyTypeAgency, []string{"agency", "creative", "advertising", "digital"}},
	{CompanyTypeBrand, []string{"brand", "client"}},
	{CompanyTypeSound, []string{"sound", "audio", "music", "studio"}},
	{CompanyTypeEditorial, []string{"editorial", "editing", "edit"}},
}

// InferCompanyType guesses a company type from its name.
// Returns CompanyTypeUnknown when no keyword matches.
func InferCompanyType(name string) CompanyType {
	lower := strings.ToLower(name)
	for _, entry := range companyTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.typ
			}
		}
	}
	return CompanyTypeUnknown
}

// CleanText trims s and collapses internal whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slug lower-cases s and joins its words with dashes.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Finalize returns a cleaned copy of r. Text fields are whitespace-normalized,
// credits without a person name and companies without a name or credits are
// dropped, empty company types are inferred from the name, and the meta block
// records method as the extraction method. The input is not modified.
func Finalize(r *Record, method string) *Record {
	out := *r
	out.URL = strings.TrimSpace(r.URL)
	out.Title = CleanText(r.Title)
	out.Description = CleanText(r.Description)
	out.Client = CleanText(r.Client)
	out.Date = CleanText(r.Date)
	out.Location = CleanText(r.Location)
	out.Format = CleanText(r.Format)
	out.PosterImage = strings.TrimSpace(r.PosterImage)
	out.VideoLinks = uniqueStrings(r.VideoLinks)

	out.Companies = nil
	usedIDs := make(map[string]bool)
	for _, c := range r.Companies {
		company, ok := finalizeCompany(c)
		if !ok {
			continue
		}
		company.ID = uniqueID(company.ID, usedIDs)
		out.Companies = append(out.Companies, company)
	}

	out.Meta = r.Meta
	out.Meta.EscalationsUsed = append([]string(nil), r.Meta.EscalationsUsed...)
	out.Meta.UnknownRoles = unknownRoles(out.Companies)
	out.Meta.ExtractionMethod = method
	out.Meta.CreditsEnriched = len(out.Companies) > 0
	return &out
}

func finalizeCompany(c Company) (Company, bool) {
	company := Company{
		ID:   strings.TrimSpace(c.ID),
		Name: CleanText(c.Name),
		Type: CompanyType(CleanText(string(c.Type))),
		URL:  strings.TrimSpace(c.URL),
	}
	if company.Name == "" {
		return company, false
	}

	seen := make(map[string]bool)
	for _, cr := range c.Credits {
		credit := Credit{
			Person: Person{
				ID:   strings.TrimSpace(cr.Person.ID),
				Name: CleanText(cr.Person.Name),
				URL:  strings.TrimSpace(cr.Person.URL),
			},
			Role: CleanText(cr.Role),
		}
		if credit.Person.Name == "" {
			continue
		}
		key := strings.ToLower(credit.Person.Name) + "\x00" + strings.ToLower(credit.Role)
		if seen[key] {
			continue
		}
		seen[key] = true
		company.Credits = append(company.Credits, credit)
	}
	if len(company.Credits) == 0 {
		return company, false
	}

	if company.ID == "" {
		company.ID = Slug(company.Name)
	}
	if company.Type == CompanyTypeUnknown {
		company.Type = InferCompanyType(company.Name)
	}
	return company, true
}

func uniqueID(id string, used map[string]bool) string {
	candidate := id
	for n := 2; used[candidate]; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}

func unknownRoles(companies []Company) []UnknownRole {
	var unknown []UnknownRole
	seen := make(map[string]bool)
	for _, c := range companies {
		for _, cr := range c.Credits {
			if cr.Role != "" {
				continue
			}
			key := cr.Person.ID + "\x00" + cr.Person.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			unknown = append(unknown, UnknownRole{PersonID: cr.Person.ID, Name: cr.Person.Name})
		}
	}
	return unknown
}

func uniqueStrings(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
