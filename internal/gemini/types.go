package gemini

// Schema types as the generateContent API spells them.
const (
	TypeArray   = "ARRAY"
	TypeObject  = "OBJECT"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeBoolean = "BOOLEAN"
)

type InlineData struct {
	MimeType string `json:"mimeType"`
	// Data is base64 encoded
	Data string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// FirstText returns the text of the first part of the first candidate.
func (r *GenerateContentResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}

// UserPrompt builds a single user turn from a text prompt and optional inline data.
func UserPrompt(text string, inline *InlineData) []Content {
	parts := []Part{{Text: text}}
	if inline != nil {
		parts = append(parts, Part{InlineData: inline})
	}
	return []Content{{Role: "user", Parts: parts}}
}

// JSONOutput asks the model for JSON conforming to schema.
func JSONOutput(schema *Schema) *GenerationConfig {
	return &GenerationConfig{
		ResponseMimeType: "application/json",
		ResponseSchema:   schema,
	}
}
