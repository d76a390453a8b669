package engine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"hera-assistant/internal/model"
)

// Entity patterns run against the raw (case-preserved) message. Matches are
// independent and overlapping spans are NOT deduplicated: the same substring
// may be reported as both an amount and part of an invoice number. Downstream
// consumers take the first entity of each type, which keeps the overlap
// harmless there.
var (
	amountPattern   = regexp.MustCompile(`\$?([\d,]+\.?\d*)`)
	slashDate       = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	isoDate         = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	relativeDay     = regexp.MustCompile(`(?i)\b(today|tomorrow|yesterday)\b`)
	relativePhrase  = regexp.MustCompile(`(?i)\b(next|last)\s+(week|month|year)\b`)
	invoicePattern  = regexp.MustCompile(`(?i)(?:\b(?:invoice|inv)|#)\s*([a-zA-Z0-9-]+)`)
	customerPattern = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*\s+(?:Corporation|Corp|Incorporated|Inc|LLC|Ltd|Company|Co))\b`)
)

// ExtractEntities scans a message for typed fragments. It never fails; a
// message with no recognizable fragments yields an empty slice.
func ExtractEntities(message string, _ model.BusinessContext) []model.ExtractedEntity {
	entities := []model.ExtractedEntity{}

	for _, m := range amountPattern.FindAllStringSubmatchIndex(message, -1) {
		value := message[m[2]:m[3]]
		e := model.ExtractedEntity{
			Type:       model.EntityAmount,
			Value:      value,
			Confidence: 0.9,
			StartIndex: m[0],
			EndIndex:   m[1],
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64); err == nil {
			e.Normalized = f
		}
		entities = append(entities, e)
	}

	entities = append(entities, extractDates(message)...)

	for _, m := range invoicePattern.FindAllStringSubmatchIndex(message, -1) {
		entities = append(entities, model.ExtractedEntity{
			Type:       model.EntityInvoiceNumber,
			Value:      message[m[2]:m[3]],
			Confidence: 0.85,
			StartIndex: m[0],
			EndIndex:   m[1],
		})
	}

	for _, m := range customerPattern.FindAllStringSubmatchIndex(message, -1) {
		entities = append(entities, model.ExtractedEntity{
			Type:       model.EntityCustomerName,
			Value:      message[m[2]:m[3]],
			Confidence: 0.7,
			StartIndex: m[0],
			EndIndex:   m[1],
		})
	}

	return entities
}

func extractDates(message string) []model.ExtractedEntity {
	var dates []model.ExtractedEntity

	for _, re := range []*regexp.Regexp{slashDate, isoDate} {
		for _, m := range re.FindAllStringIndex(message, -1) {
			dates = append(dates, model.ExtractedEntity{
				Type:       model.EntityDate,
				Value:      message[m[0]:m[1]],
				Confidence: 0.85,
				StartIndex: m[0],
				EndIndex:   m[1],
			})
		}
	}

	for _, m := range relativeDay.FindAllStringIndex(message, -1) {
		value := message[m[0]:m[1]]
		dates = append(dates, model.ExtractedEntity{
			Type:       model.EntityDate,
			Value:      value,
			Confidence: 0.85,
			StartIndex: m[0],
			EndIndex:   m[1],
			Normalized: normalizeRelativeDay(value, time.Now()),
		})
	}

	// Relative phrases ("next month") pass through unnormalized.
	for _, m := range relativePhrase.FindAllStringIndex(message, -1) {
		dates = append(dates, model.ExtractedEntity{
			Type:       model.EntityDate,
			Value:      message[m[0]:m[1]],
			Confidence: 0.8,
			StartIndex: m[0],
			EndIndex:   m[1],
		})
	}

	return dates
}

func normalizeRelativeDay(word string, now time.Time) string {
	switch strings.ToLower(word) {
	case "tomorrow":
		now = now.AddDate(0, 0, 1)
	case "yesterday":
		now = now.AddDate(0, 0, -1)
	}
	return now.Format("2006-01-02")
}
