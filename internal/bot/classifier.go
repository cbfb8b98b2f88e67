package bot

import (
	"strings"

	"aibot-api/internal/models"
)

// Keyword lists are deliberately small and matched as case-insensitive
// substrings. Intents are checked image -> code, anything else is plain
// text; the first match wins and intents never combine.
var (
	imageKeywords = []string{
		"нарисуй",
		"нарисовать",
		"сгенерируй картинку",
		"сгенерируй изображение",
		"изобрази",
		"draw",
		"generate image",
		"generate a picture",
	}

	codeKeywords = []string{
		"код",
		"скрипт",
		"напиши функцию",
		"напиши программу",
		"code",
		"script",
		"function",
		"program",
	}
)

// Classify resolves the intent of a plain text message. Photo content is
// classified as vision by the router before keyword matching applies.
func Classify(text string) models.Feature {
	lowered := strings.ToLower(text)

	for _, kw := range imageKeywords {
		if strings.Contains(lowered, kw) {
			return models.FeatureImage
		}
	}
	for _, kw := range codeKeywords {
		if strings.Contains(lowered, kw) {
			return models.FeatureCode
		}
	}
	return models.FeatureText
}
