package emotion

import (
	"strings"
)

// Category 表示情绪标签被归入的回复分组。
type Category string

const (
	Happy   Category = "happy"
	Sad     Category = "sad"
	Angry   Category = "angry"
	Anxious Category = "anxious"
	Neutral Category = "neutral"
)

// Perspective 表示顾问回复所采用的身份视角。
type Perspective string

const (
	Therapist Perspective = "therapist"
	Friend    Perspective = "friend"
	Parent    Perspective = "parent"
	Mentor    Perspective = "mentor"
)

// Extraction holds the fields sniffed out of a free-text user message.
type Extraction struct {
	Emotion string
	Content string
}

type keywordBucket struct {
	category Category
	keywords []string
}

// keywordBuckets is ordered; the first bucket with a matching keyword wins.
var keywordBuckets = []keywordBucket{
	{Happy, []string{"happy", "joy", "excited", "content", "pleased"}},
	{Sad, []string{"sad", "down", "depressed", "unhappy", "disappointed"}},
	{Angry, []string{"angry", "mad", "frustrated", "annoyed", "irritated"}},
	{Anxious, []string{"anxious", "worried", "nervous", "stressed", "afraid"}},
}

// perspectiveOrder is the search order used when sniffing a system message.
var perspectiveOrder = []Perspective{Therapist, Friend, Parent, Mentor}

const (
	feelingMarker = "feeling"
	labelStop     = ":"
	quoteMark     = `"`
)

// Classify maps a free-text emotion label onto a Category.
func Classify(label string) Category {
	normalized := strings.ToLower(label)
	for _, bucket := range keywordBuckets {
		for _, word := range bucket.keywords {
			if strings.Contains(normalized, word) {
				return bucket.category
			}
		}
	}
	return Neutral
}

// Extract 从用户消息中提取情绪标签与引号内的正文。缺失时对应字段为空。
func Extract(userText string) Extraction {
	var out Extraction

	if _, after, ok := strings.Cut(userText, feelingMarker); ok {
		// Text between two "feeling" markers is all that is considered.
		if idx := strings.Index(after, feelingMarker); idx >= 0 {
			after = after[:idx]
		}
		label, _, _ := strings.Cut(after, labelStop)
		out.Emotion = strings.TrimSpace(label)
	}

	parts := strings.SplitN(userText, quoteMark, 3)
	if len(parts) == 3 {
		out.Content = parts[1]
	}

	return out
}

// DetectPerspective searches a system message for one of the perspective tags.
func DetectPerspective(systemText string) (Perspective, bool) {
	normalized := strings.ToLower(systemText)
	for _, p := range perspectiveOrder {
		if strings.Contains(normalized, string(p)) {
			return p, true
		}
	}
	return "", false
}

// ParsePerspective matches an explicit perspective tag as sent by the frontend.
// Tags are case-sensitive: "Therapist" is not a known perspective.
func ParsePerspective(raw string) (Perspective, bool) {
	switch Perspective(raw) {
	case Therapist:
		return Therapist, true
	case Friend:
		return Friend, true
	case Parent:
		return Parent, true
	case Mentor:
		return Mentor, true
	default:
		return "", false
	}
}

// ContainsAnalyze reports whether a message asks for an analysis.
func ContainsAnalyze(text string) bool {
	return strings.Contains(strings.ToLower(text), "analyze")
}
