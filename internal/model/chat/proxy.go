package chat

// ProxyRequest is the single-message payload forwarded to the model runtime.
// Empty fields are replaced with configured defaults.
type ProxyRequest struct {
	Message      string   `json:"message"`
	Model        string   `json:"model,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// ProxyReply carries the generated text and the model that produced it.
type ProxyReply struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}
