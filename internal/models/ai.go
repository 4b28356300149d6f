package models

// Тон и длина генерации.
const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	ToneFriendly      = "friendly"
	ToneAuthoritative = "authoritative"

	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// swagger:model GenerateContentRequest
type GenerateContentRequest struct {
	Topic    string   `json:"topic"    example:"кэширование в Go"`
	Tone     string   `json:"tone"     example:"professional"`
	Length   string   `json:"length"   example:"medium"`
	Keywords []string `json:"keywords" example:"go,cache,performance"`
}

// GeneratedContent — то, что модель обязана вернуть в JSON.
// Поля не валидируются сверх разбора: отсутствующий ключ станет пустой строкой.
type GeneratedContent struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	Tags           []string `json:"tags"`
}

// swagger:model OptimizeSEORequest
type OptimizeSEORequest struct {
	Content        string   `json:"content"`
	TargetKeywords []string `json:"targetKeywords"`
}

type SEOOptimization struct {
	OptimizedTitle       string             `json:"optimizedTitle"`
	OptimizedDescription string             `json:"optimizedDescription"`
	Suggestions          []string           `json:"suggestions"`
	KeywordDensity       map[string]float64 `json:"keywordDensity"`
}

// swagger:model GenerateIdeasRequest
type GenerateIdeasRequest struct {
	Topic string `json:"topic" example:"наблюдаемость микросервисов"`
	Count int    `json:"count" example:"5"`
}

type IdeasResponse struct {
	Ideas []string `json:"ideas"`
}

// swagger:model ImproveContentRequest
type ImproveContentRequest struct {
	Content string `json:"content"`
}

type ImprovedContent struct {
	ImprovedContent string   `json:"improvedContent"`
	Improvements    []string `json:"improvements"`
}
