package f5ai

// Message is one entry of a chat conversation sent to the gateway. Content is
// either a plain string or a slice of ContentPart for multimodal requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one block of a multimodal user message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference, usually a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextMessage builds a plain-text chat message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// TextPart builds a text content block.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image content block from a data URL.
func ImagePart(dataURL string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}}
}

// ChatOptions holds optional chat completion parameters.
type ChatOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// Usage reports token accounting returned by the gateway.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the normalized result of a chat completion call. The gateway
// answers either in the OpenAI choices shape or with a flat message object;
// the client folds both into this one shape.
type ChatResult struct {
	Text  string
	Usage Usage
}

// ModelInfo describes one model the gateway advertises.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}
