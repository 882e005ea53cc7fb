package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Detection confidence buckets and score sources.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	SourceClassifier = "roberta-openai-detector"
	SourceMock       = "mock"
)

// Detection is the AI-likelihood verdict for a text. The two probabilities
// always sum to 1; Source records whether the external classifier or the local
// heuristic produced the score.
type Detection struct {
	HumanProbability float64 `json:"human_probability"`
	AIProbability    float64 `json:"ai_probability"`
	Confidence       string  `json:"confidence"`
	Source           string  `json:"source"`
}

// Stylometry is the descriptive style snapshot stored alongside a submission.
// The score is advisory: recorded for analytics, never gating the policy.
type Stylometry struct {
	Score             float64 `json:"score"`
	AvgWordLength     float64 `json:"avg_word_length"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	VocabularyRich    float64 `json:"vocabulary_richness"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
}

// Jitter samples a value in [min, max]. Injecting it keeps the heuristics
// seedable so tests can pin deterministic output.
type Jitter func(min, max float64) float64

// ZeroJitter pins the heuristics to their deterministic component.
func ZeroJitter(min, max float64) float64 { return 0 }

// mockPunctuation is the fixed punctuation/quote set whose presence nudges the
// heuristic toward a human verdict.
const mockPunctuation = "!?—…“”"

// HeuristicDetection is the local fallback scorer used when the external
// classifier is unavailable. It must stay bit-compatible with the remote
// contract: probabilities in [0,1] summing to 1, score clamped to [0.28, 0.97].
func HeuristicDetection(text string, jitter Jitter) Detection {
	words := strings.Fields(text)
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return Detection{
			HumanProbability: 0.5,
			AIProbability:    0.5,
			Confidence:       ConfidenceLow,
			Source:           SourceMock,
		}
	}

	avgSentenceLen := float64(len(words)) / float64(max(len(sentences), 1))
	richness := vocabularyRichness(words)

	variance := 0.0
	if len(sentences) > 1 {
		lengths := make([]float64, len(sentences))
		for i, s := range sentences {
			lengths[i] = float64(len(strings.Fields(s)))
		}
		for _, l := range lengths {
			variance += (l - avgSentenceLen) * (l - avgSentenceLen)
		}
		variance /= float64(len(lengths))
	}

	score := 0.62
	if richness > 0.5 {
		score += 0.10
	}
	if variance > 10 {
		score += 0.07
	}
	if avgSentenceLen < 25 {
		score += 0.05
	}
	if strings.ContainsAny(text, mockPunctuation) {
		score += 0.04
	}
	if utf8.RuneCountInString(text) > 500 {
		score += 0.03
	}
	score += jitter(-0.07, 0.07)
	score = clampFloat(score, 0.28, 0.97)

	confidence := ConfidenceLow
	switch {
	case score > 0.82 || score < 0.35:
		confidence = ConfidenceHigh
	case score > 0.6:
		confidence = ConfidenceMedium
	}

	human := round3(score)
	return Detection{
		HumanProbability: human,
		AIProbability:    round3(1 - human),
		Confidence:       confidence,
		Source:           SourceMock,
	}
}

// ClassifierConfidence buckets the stronger of the two remote label scores.
func ClassifierConfidence(topScore float64) string {
	switch {
	case topScore > 0.85:
		return ConfidenceHigh
	case topScore > 0.65:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// stylometryPunctuation feeds the punctuation-density feature.
const stylometryPunctuation = ".,!?;:—\"'"

// AnalyzeStyle computes the stylometric feature snapshot and its heuristic
// authenticity score.
func AnalyzeStyle(text string, jitter Jitter) Stylometry {
	words := strings.Fields(text)
	sentences := splitSentences(text)

	totalWordLen := 0
	for _, w := range words {
		totalWordLen += utf8.RuneCountInString(w)
	}
	avgWordLen := float64(totalWordLen) / float64(max(len(words), 1))
	avgSentenceLen := float64(len(words)) / float64(max(len(sentences), 1))
	richness := vocabularyRichness(words)

	punct := 0
	for _, r := range text {
		if strings.ContainsRune(stylometryPunctuation, r) {
			punct++
		}
	}
	density := float64(punct) / float64(max(utf8.RuneCountInString(text), 1))

	score := 0.5
	if avgWordLen > 3 && avgWordLen < 8 {
		score += 0.12
	}
	if avgSentenceLen > 10 && avgSentenceLen < 30 {
		score += 0.12
	}
	if richness > 0.4 {
		score += 0.14
	}
	if density > 0.02 {
		score += 0.08
	}
	score += jitter(-0.04, 0.04)
	score = clampFloat(score, 0.1, 0.99)

	return Stylometry{
		Score:             round3(score),
		AvgWordLength:     round2(avgWordLen),
		AvgSentenceLength: round2(avgSentenceLen),
		VocabularyRich:    round3(richness),
		WordCount:         len(words),
		SentenceCount:     len(sentences),
	}
}

// splitSentences breaks text on terminal punctuation runs and drops blanks.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func vocabularyRichness(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
