package domain

// Snapshot is the structural description of a chain returned by Inspect.
// It is derived from registered state only.
type Snapshot struct {
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Links       []string         `json:"links" yaml:"links"`
	Connections []ConnectionInfo `json:"connections" yaml:"connections"`
	Middleware  []MiddlewareInfo `json:"middleware" yaml:"middleware"`
}

// ConnectionInfo describes a conditional edge.
type ConnectionInfo struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Index int    `json:"index" yaml:"index"` // registration order among connections leaving From
}

// MiddlewareInfo describes one middleware placement.
type MiddlewareInfo struct {
	Name      string `json:"name" yaml:"name"`
	Placement `yaml:",inline"`
}

// MiddlewareAt filters the placements at position, in index order.
func (s Snapshot) MiddlewareAt(p Position) []MiddlewareInfo {
	var out []MiddlewareInfo
	for _, m := range s.Middleware {
		if m.Position == p {
			out = append(out, m)
		}
	}
	return out
}
