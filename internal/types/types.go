package types

// ClientMessage is one JSON frame from a browser over the websocket.
// Which fields matter depends on Type:
//
//	"allow-vote":    Target (the code shown on the voter's screen)
//	"send-vote":     Group, Participant
//	"watch-group":   Group
//	"unwatch-group": Group
type ClientMessage struct {
	Type        string `json:"type"`
	Target      string `json:"target,omitempty"`
	Group       string `json:"group,omitempty"`
	Participant string `json:"participant,omitempty"`
}

// ServerMessage is one JSON frame to a browser. Type is "new-id",
// "vote-allowed", "error", or "vote-<group id>" for cast-vote fan-out.
type ServerMessage struct {
	Type        string `json:"type"`
	ID          string `json:"id,omitempty"`
	Participant string `json:"participant,omitempty"`
	Error       string `json:"error,omitempty"`
}
