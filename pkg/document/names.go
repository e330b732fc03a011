package document

// Upload names the pipeline reads. The operator must use these exact names.
const (
	ProductList  = "product_list.pdf"
	USP          = "USP.pdf"
	KeyStats     = "key_stats.pdf"
	AboutUs      = "about_us.pdf"
	ColourScheme = "colour_scheme.pdf"
	PillarPage   = "pillar_page.pdf"
)

// Required lists the company documents every stage reads, in upload order.
func Required() []string {
	return []string{ProductList, USP, KeyStats, AboutUs, ColourScheme}
}

// IsKnown reports whether name is a document the pipeline accepts.
func IsKnown(name string) bool {
	if name == PillarPage {
		return true
	}
	for _, r := range Required() {
		if r == name {
			return true
		}
	}
	return false
}
