package engine

import (
	"strings"

	"hera-assistant/internal/model"
)

var frustrationKeywords = []string{"frustrated", "annoyed", "angry", "ridiculous", "terrible", "awful", "useless", "fed up"}
var negativeKeywords = []string{"bad", "wrong", "broken", "problem", "issue", "error", "fail", "worst", "hate", "slow"}
var positiveKeywords = []string{"great", "good", "thanks", "thank you", "awesome", "excellent", "perfect", "love", "helpful"}

// AnalyzeSentiment is a keyword-count heuristic, not a statistical model;
// confidence values are canned. Frustration keywords dominate, then a
// negative-keyword majority, then any positive keyword, then neutral.
// Pure function: the same message always yields the same result.
func AnalyzeSentiment(message string) model.Sentiment {
	normalized := strings.ToLower(message)

	urgency := "normal"
	for _, kw := range urgentKeywords {
		if strings.Contains(normalized, kw) {
			urgency = "high"
			break
		}
	}

	for _, kw := range frustrationKeywords {
		if strings.Contains(normalized, kw) {
			return model.Sentiment{
				Overall:    "negative",
				Confidence: 0.8,
				Emotions:   []string{"frustration"},
				Urgency:    urgency,
			}
		}
	}

	negatives := countKeywords(normalized, negativeKeywords)
	positives := countKeywords(normalized, positiveKeywords)

	if negatives > positives {
		return model.Sentiment{Overall: "negative", Confidence: 0.7, Urgency: urgency}
	}
	if positives > 0 {
		return model.Sentiment{Overall: "positive", Confidence: 0.7, Emotions: []string{"satisfaction"}, Urgency: urgency}
	}
	return model.Sentiment{Overall: "neutral", Confidence: 0.6, Urgency: urgency}
}

func countKeywords(normalized string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			count++
		}
	}
	return count
}
