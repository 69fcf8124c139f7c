package dto

// FlowFile is the top-level layout of a flow definition (YAML or JSON).
// Nodes are kept as raw maps so each one can be decoded strictly.
type FlowFile struct {
	Root  string           `yaml:"root" json:"root"`
	Nodes []map[string]any `yaml:"nodes" json:"nodes"`
}

// NodeMetadata represents one node as written in a flow file.
// It uses "mapstructure" tags to match the YAML keys.
type NodeMetadata struct {
	ID      string   `json:"id" mapstructure:"id"`
	Role    string   `json:"role" mapstructure:"role"`
	Title   string   `json:"title" mapstructure:"title"`
	Body    string   `json:"body" mapstructure:"body"`
	Bullets []string `json:"bullets" mapstructure:"bullets"`
	Note    string   `json:"note" mapstructure:"note"`

	// Next lists the outgoing choices in display order.
	Next []LoaderEdge `json:"next" mapstructure:"next"`
}

type LoaderEdge struct {
	Label    string `json:"label" mapstructure:"label"`
	To       string `json:"to" mapstructure:"to"`
	Emphasis bool   `json:"emphasis" mapstructure:"emphasis"`
}
