// Package emotion scores text against the go_emotions category set and
// derives a dominant emotion and a coarse sentiment value.
package emotion

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Analysis is the outcome for one text. Scores always carries every
// category. Degraded marks results produced without model output.
type Analysis struct {
	Scores    map[string]float64 `json:"scores"`
	Dominant  string             `json:"dominant"`
	Sentiment float64            `json:"sentiment_score"`
	Degraded  bool               `json:"-"`
}

// Engine wraps a Classifier with truncation, score normalization and the
// sentiment calculation. When serialize is set, model calls are issued
// one at a time; some inference backends degrade badly under concurrent
// load.
type Engine struct {
	classifier Classifier
	maxChars   int
	serialize  bool
	mu         sync.Mutex
}

func NewEngine(classifier Classifier, maxChars int, serialize bool) *Engine {
	if maxChars <= 0 {
		maxChars = 1500
	}
	return &Engine{classifier: classifier, maxChars: maxChars, serialize: serialize}
}

// Analyze scores text across all categories. Empty or whitespace-only
// input short-circuits to an all-zero neutral result without touching
// the model. Model failure returns a zeroed result flagged Degraded so
// callers can persist the record anyway.
func (e *Engine) Analyze(ctx context.Context, text string) Analysis {
	if strings.TrimSpace(text) == "" {
		return zeroAnalysis(false)
	}

	runes := []rune(text)
	if len(runes) > e.maxChars {
		text = string(runes[:e.maxChars])
	}

	labels, err := e.classify(ctx, text)
	if err != nil {
		slog.Info(err.Error())
		return zeroAnalysis(true)
	}

	scores := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	for _, ls := range labels {
		if _, ok := scores[ls.Label]; !ok {
			continue
		}
		scores[ls.Label] = clamp(ls.Score, 0, 1)
	}

	return Analysis{
		Scores:    scores,
		Dominant:  dominant(scores),
		Sentiment: sentiment(scores),
	}
}

func (e *Engine) classify(ctx context.Context, text string) ([]LabelScore, error) {
	if e.serialize {
		e.mu.Lock()
		defer e.mu.Unlock()
	}
	return e.classifier.Classify(ctx, text)
}

// dominant picks the highest-scoring category; ties resolve to the
// category that appears first in the fixed list.
func dominant(scores map[string]float64) string {
	best := Categories[0]
	bestScore := scores[best]
	for _, c := range Categories[1:] {
		if scores[c] > bestScore {
			best = c
			bestScore = scores[c]
		}
	}
	return best
}

// sentiment is the positive-bucket sum minus the negative-bucket sum,
// clamped to [-1, 1].
func sentiment(scores map[string]float64) float64 {
	var pos, neg float64
	for c, s := range scores {
		if _, ok := positiveCategories[c]; ok {
			pos += s
		} else if _, ok := negativeCategories[c]; ok {
			neg += s
		}
	}
	return clamp(pos-neg, -1, 1)
}

func zeroAnalysis(degraded bool) Analysis {
	scores := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	return Analysis{
		Scores:    scores,
		Dominant:  DominantNeutral,
		Sentiment: 0,
		Degraded:  degraded,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
