package domain

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// View is everything a renderer needs for one frame.
// When Searching is true, Results replace Node in the display.
type View struct {
	Node        Node         `json:"node"`
	Query       string       `json:"query,omitempty"`
	Results     []Node       `json:"results,omitempty"`
	Searching   bool         `json:"searching"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	CanBack     bool         `json:"can_back"`
}
