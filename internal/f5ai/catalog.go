package f5ai

// ModelOption is one selectable model inside a vendor group.
type ModelOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ModelGroup is a set of models offered by one vendor.
type ModelGroup struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Models []ModelOption `json:"models"`
}

// catalog lists the models the builder exposes, grouped by vendor. The gateway
// proxies all of them behind one OpenAI-compatible endpoint.
var catalog = []ModelGroup{
	{
		ID:    "openai",
		Label: "OpenAI",
		Models: []ModelOption{
			{ID: "gpt-4o", Label: "GPT-4o"},
			{ID: "gpt-4o-mini", Label: "GPT-4o mini"},
			{ID: "gpt-5-mini", Label: "GPT-5 mini"},
		},
	},
	{
		ID:    "anthropic",
		Label: "Anthropic",
		Models: []ModelOption{
			{ID: "claude-3-5-sonnet", Label: "Claude 3.5 Sonnet"},
			{ID: "claude-3-haiku", Label: "Claude 3 Haiku"},
		},
	},
	{
		ID:    "google",
		Label: "Google",
		Models: []ModelOption{
			{ID: "gemini-1.5-pro", Label: "Gemini 1.5 Pro"},
			{ID: "gemini-1.5-flash", Label: "Gemini 1.5 Flash"},
		},
	},
	{
		ID:    "deepseek",
		Label: "DeepSeek",
		Models: []ModelOption{
			{ID: "deepseek-chat", Label: "DeepSeek Chat"},
			{ID: "deepseek-reasoner", Label: "DeepSeek Reasoner"},
		},
	},
	{
		ID:    "russian",
		Label: "Russian (MAX)",
		Models: []ModelOption{
			{ID: "gigachat-max", Label: "GigaChat MAX"},
			{ID: "yandexgpt-pro", Label: "YandexGPT Pro"},
		},
	},
}

// Catalog returns the model catalog grouped by vendor.
func Catalog() []ModelGroup {
	return catalog
}

// CatalogGroup looks up one vendor group by its identifier.
func CatalogGroup(id string) (ModelGroup, bool) {
	for _, g := range catalog {
		if g.ID == id {
			return g, true
		}
	}
	return ModelGroup{}, false
}

// KnownModel reports whether a model identifier appears in the catalog.
func KnownModel(id string) bool {
	for _, g := range catalog {
		for _, m := range g.Models {
			if m.ID == id {
				return true
			}
		}
	}
	return false
}
