package domain

// ConnectionType is the gesture a connection stands for.
type ConnectionType string

const (
	ConnectionTap   ConnectionType = "tap"
	ConnectionSwipe ConnectionType = "swipe"
	ConnectionAuto  ConnectionType = "auto"
	ConnectionBack  ConnectionType = "back"
	ConnectionLink  ConnectionType = "link"
)

// ConnectionTypes lists every type in legend order.
var ConnectionTypes = []ConnectionType{
	ConnectionTap,
	ConnectionSwipe,
	ConnectionAuto,
	ConnectionBack,
	ConnectionLink,
}

// Valid reports whether t is one of the known connection types.
func (t ConnectionType) Valid() bool {
	for _, known := range ConnectionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Connection is a directed, typed edge between two screens. Self-loops and
// parallel edges are allowed.
type Connection struct {
	ID    string         `json:"id" bson:"id"`
	From  string         `json:"from" bson:"from"`
	To    string         `json:"to" bson:"to"`
	Type  ConnectionType `json:"type" bson:"type"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"`
}
