package credex

// StructureVariant classifies a page's HTML layout.
type StructureVariant string

// Known structure variants.
const (
	VariantGeneric        StructureVariant = "generic"
	VariantTabularCredits StructureVariant = "tabular-credits"
	VariantJSONEmbedded   StructureVariant = "json-embedded-credits"
	VariantDOMv1          StructureVariant = "structured-dom-v1"
	VariantDOMv2          StructureVariant = "structured-dom-v2"
	VariantDOMAward       StructureVariant = "structured-dom-award"
	VariantJSRendered     StructureVariant = "js-rendered"
)

// StructureDetector classifies page structure.
type StructureDetector interface {
	// Detect inspects the HTML and the URL's host and returns the page's
	// structure variant. It never fails; HTML that cannot be parsed or that
	// carries no known marker yields VariantGeneric.
	Detect(html string, pageURL string) StructureVariant
}
