// Package credex scrapes creative-industry project pages and normalizes their
// credits (companies, people and roles) into a uniform Record.
//
// The core is a multi-strategy extraction cascade: a page's HTML is classified
// into a structure variant, an ordered list of extraction strategies is tried
// until one yields companies, the result is validated, and the pipeline
// escalates to oracle-suggested selectors or headless rendering when static
// extraction under-delivers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/, gemini/).
package credex
