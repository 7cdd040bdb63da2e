package chat

// Role identifies who authored a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-style request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is the chat payload accepted by the advisor service.
type Request struct {
	Messages     []Message `json:"messages"`
	Model        string    `json:"model,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
}

// First returns the content of the first message with the given role.
// Later messages of the same role are ignored.
func (r Request) First(role Role) (string, bool) {
	for _, msg := range r.Messages {
		if msg.Role == role {
			return msg.Content, true
		}
	}
	return "", false
}

// Reply is the advisor chat response body.
type Reply struct {
	Response string `json:"response"`
}
