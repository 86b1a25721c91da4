package domain

const (
	CategoryAll        = "All"
	CategoryTopStories = "Top Stories"

	// GeneralCode is the upstream code used for unmapped labels.
	GeneralCode = "general"
	// GeneralLabel is stored on articles fetched for the "All" label.
	GeneralLabel = "General"
	// SearchLabel is stored on search results whose source has no name.
	SearchLabel = "Search"
)

// CategoryMapping pairs a UI-facing label with the upstream category code.
type CategoryMapping struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Categories is the label table in display order.
// "World" has no upstream equivalent and collapses to "general".
var Categories = []CategoryMapping{
	{Label: CategoryAll, Code: GeneralCode},
	{Label: CategoryTopStories, Code: GeneralCode},
	{Label: "World", Code: GeneralCode},
	{Label: "Politics", Code: "politics"},
	{Label: "Business", Code: "business"},
	{Label: "Tech", Code: "technology"},
	{Label: "Sports", Code: "sports"},
	{Label: "Health", Code: "health"},
	{Label: "Entertainment", Code: "entertainment"},
}

// UpstreamCode returns the upstream code for a label, or "general" if the label is unknown.
func UpstreamCode(label string) string {
	for _, c := range Categories {
		if c.Label == label {
			return c.Code
		}
	}
	return GeneralCode
}

// HeadlineLabel is the category stored on headlines fetched for label.
func HeadlineLabel(label string) string {
	if label == CategoryAll {
		return GeneralLabel
	}
	return label
}

// ShowsEverything reports whether a label means "no category filter".
func ShowsEverything(label string) bool {
	return label == CategoryAll || label == CategoryTopStories
}

// Feed modes, used for metrics, log keys and feed events.
const (
	ModeHeadlines = "headlines"
	ModeSearch    = "search"
)
