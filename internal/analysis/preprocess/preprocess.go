// Package preprocess normalizes raw social-media text before analysis.
// The pipeline is deterministic: same input and dictionary, same output.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/forPelevin/gomoji"
)

// LanguageUnknown is recorded when detection is skipped or inconclusive.
const LanguageUnknown = "unknown"

// Abbreviations expanded on whole-word boundaries during cleaning.
var defaultExpansions = map[string]string{
	"lol":   "laughing out loud",
	"omg":   "oh my god",
	"btw":   "by the way",
	"tbh":   "to be honest",
	"imo":   "in my opinion",
	"imho":  "in my humble opinion",
	"brb":   "be right back",
	"gtg":   "got to go",
	"idk":   "i don't know",
	"smh":   "shaking my head",
	"fyi":   "for your information",
	"dm":    "direct message",
	"rt":    "retweet",
	"icymi": "in case you missed it",
}

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern    = regexp.MustCompile(`@\w+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

type Config struct {
	// MinTokens is the minimum cleaned-token count before language
	// detection runs at all; shorter inputs default to "unknown".
	MinTokens int
	// MinConfidence is the detector confidence floor in [0,1].
	MinConfidence float64
}

type Result struct {
	Cleaned  string
	Language string
}

type Preprocessor struct {
	cfg        Config
	expansions map[string]string
}

func New(cfg Config) *Preprocessor {
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = 3
	}
	return &Preprocessor{cfg: cfg, expansions: defaultExpansions}
}

// Preprocess runs the fixed stage order: emoji substitution, URL and
// mention stripping, abbreviation expansion, whitespace normalization,
// then language detection on the cleaned text.
func (p *Preprocessor) Preprocess(text string) Result {
	cleaned := p.normalizeEmoji(text)
	cleaned = p.stripNoise(cleaned)
	cleaned = p.expandAbbreviations(cleaned)
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	return Result{
		Cleaned:  cleaned,
		Language: p.detectLanguage(cleaned),
	}
}

// normalizeEmoji replaces each emoji with its descriptive phrase,
// padded so it never fuses with neighboring words.
func (p *Preprocessor) normalizeEmoji(text string) string {
	return gomoji.ReplaceEmojisWithFunc(text, func(e gomoji.Emoji) string {
		return " " + strings.ReplaceAll(e.Slug, "-", " ") + " "
	})
}

// stripNoise removes URLs and @mentions and drops the hashtag symbol
// while keeping the tag text.
func (p *Preprocessor) stripNoise(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	return strings.ReplaceAll(text, "#", "")
}

func (p *Preprocessor) expandAbbreviations(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		if full, ok := p.expansions[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

func (p *Preprocessor) detectLanguage(cleaned string) string {
	if len(strings.Fields(cleaned)) < p.cfg.MinTokens {
		return LanguageUnknown
	}

	info := whatlanggo.Detect(cleaned)
	if info.Confidence < p.cfg.MinConfidence {
		return LanguageUnknown
	}

	iso := info.Lang.Iso6391()
	if iso == "" {
		return LanguageUnknown
	}
	return iso
}
