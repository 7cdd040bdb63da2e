package advisor

// AnalyzeRequest asks for an analysis of a journal entry.
type AnalyzeRequest struct {
	Content string `json:"content"`
	Emotion string `json:"emotion"`
}

// AnalyzeReply carries the selected analysis text.
type AnalyzeReply struct {
	Analysis string `json:"analysis"`
}

// RespondRequest asks for a reply voiced by an advisor perspective.
type RespondRequest struct {
	Content            string `json:"content"`
	Emotion            string `json:"emotion"`
	AdvisorPerspective string `json:"advisorPerspective"`
	AISummary          string `json:"aiSummary,omitempty"`
}

// RespondReply carries the selected advisor reply.
type RespondReply struct {
	Response string `json:"response"`
}
