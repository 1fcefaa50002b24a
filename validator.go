package credex

// MissingField names a completeness criterion a Record fails.
type MissingField string

// Completeness criteria, in priority order.
const (
	MissingTitle          MissingField = "title"
	MissingCompanies      MissingField = "companies"
	MissingCompanyCredits MissingField = "company_credits"
	MissingRoles          MissingField = "roles"
	MissingMedia          MissingField = "media"
)

// AllMissingFields returns every completeness criterion in priority order.
// A page whose HTML could not be fetched reports all of them.
func AllMissingFields() []MissingField {
	return []MissingField{
		MissingTitle,
		MissingCompanies,
		MissingCompanyCredits,
		MissingRoles,
		MissingMedia,
	}
}

// Validate returns every completeness criterion the record fails, in priority
// order. All criteria are evaluated; an empty result means the record is complete.
func Validate(r *Record) []MissingField {
	var missing []MissingField
	if r.Title == "" {
		missing = append(missing, MissingTitle)
	}
	if len(r.Companies) == 0 {
		missing = append(missing, MissingCompanies)
	}

	emptyCompany, emptyRole := false, false
	for _, c := range r.Companies {
		if len(c.Credits) == 0 {
			emptyCompany = true
		}
		for _, cr := range c.Credits {
			if cr.Role == "" {
				emptyRole = true
			}
		}
	}
	if emptyCompany {
		missing = append(missing, MissingCompanyCredits)
	}
	if emptyRole {
		missing = append(missing, MissingRoles)
	}

	if len(r.VideoLinks) == 0 && r.PosterImage == "" {
		missing = append(missing, MissingMedia)
	}
	return missing
}

// MissingFieldNames converts fields to their string names.
func MissingFieldNames(fields []MissingField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}
