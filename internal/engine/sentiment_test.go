package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSentiment_Frustration(t *testing.T) {
	s := AnalyzeSentiment("this is terrible, nothing works")
	assert.Equal(t, "negative", s.Overall)
	assert.InDelta(t, 0.8, s.Confidence, 1e-9)
	assert.Contains(t, s.Emotions, "frustration")
}

func TestAnalyzeSentiment_Negative(t *testing.T) {
	s := AnalyzeSentiment("there is a problem with a broken invoice")
	assert.Equal(t, "negative", s.Overall)
	assert.InDelta(t, 0.7, s.Confidence, 1e-9)
	assert.Empty(t, s.Emotions)
}

func TestAnalyzeSentiment_Positive(t *testing.T) {
	s := AnalyzeSentiment("thanks, that was great")
	assert.Equal(t, "positive", s.Overall)
	assert.InDelta(t, 0.7, s.Confidence, 1e-9)
	assert.Contains(t, s.Emotions, "satisfaction")
}

func TestAnalyzeSentiment_Neutral(t *testing.T) {
	s := AnalyzeSentiment("record a payment of $500")
	assert.Equal(t, "neutral", s.Overall)
	assert.InDelta(t, 0.6, s.Confidence, 1e-9)
}

func TestAnalyzeSentiment_Urgency(t *testing.T) {
	assert.Equal(t, "high", AnalyzeSentiment("urgent: fix this").Urgency)
	assert.Equal(t, "high", AnalyzeSentiment("we have an emergency").Urgency)
	assert.Equal(t, "normal", AnalyzeSentiment("record a payment").Urgency)
}

func TestAnalyzeSentiment_Pure(t *testing.T) {
	first := AnalyzeSentiment("this is terrible and urgent")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AnalyzeSentiment("this is terrible and urgent"))
	}
}
