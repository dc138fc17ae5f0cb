package dialogue

// Attachment types.
const (
	AttachmentAudio = "audio"
)

// AttachmentPayload points at the attached media.
type AttachmentPayload struct {
	Src   string `json:"src"`
	Title string `json:"title,omitempty"`
}

// Attachment is a single media item sent alongside a text reply.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// Response is one message for the user. Template names a domain response
// (utter_*) that the engine renders itself.
type Response struct {
	Text       string      `json:"text,omitempty"`
	Template   string      `json:"response,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// ActionCall is the body the engine posts to run one action.
type ActionCall struct {
	NextAction string         `json:"next_action"`
	SenderID   string         `json:"sender_id"`
	Tracker    Tracker        `json:"tracker"`
	Domain     map[string]any `json:"domain,omitempty"`
	Version    string         `json:"version,omitempty"`
}

// ActionResult is the reply to an ActionCall.
type ActionResult struct {
	Events    []Event    `json:"events"`
	Responses []Response `json:"responses"`
}

// NewActionResult returns a result whose slices encode as [] rather than null.
func NewActionResult(events []Event, responses []Response) ActionResult {
	if events == nil {
		events = []Event{}
	}
	if responses == nil {
		responses = []Response{}
	}
	return ActionResult{Events: events, Responses: responses}
}
