package domain

// BoardState represents the complete state of a collection for rendering.
// Connections whose endpoints are missing are already filtered out.
type BoardState struct {
	Collection  Collection   `json:"collection"`
	Nodes       []ScreenNode `json:"nodes"`
	Connections []Connection `json:"connections"`
	Selected    []string     `json:"selected"`
	Primary     string       `json:"primary,omitempty"`
}
