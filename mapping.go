package credex

// Mapping resolves external ids to labels when a page doesn't carry them.
// It is loaded once and treated as read-only.
type Mapping struct {
	CompanyTypes map[string]string `json:"companyTypes" yaml:"companyTypes"`
	RoleMappings map[string]string `json:"roleMappings" yaml:"roleMappings"`
}

// CompanyType returns the company type for an external category id, or "".
// A nil Mapping resolves nothing.
func (m *Mapping) CompanyType(id string) CompanyType {
	if m == nil {
		return CompanyTypeUnknown
	}
	return CompanyType(m.CompanyTypes[id])
}

// Role returns the role name for an external field id, or "".
func (m *Mapping) Role(id string) string {
	if m == nil {
		return ""
	}
	return m.RoleMappings[id]
}
