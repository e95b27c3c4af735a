// Package assistant produces marketing copy for the site: chat replies for
// visitors and alternative headlines for the admin.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alfredjeanlab/marketpro/internal/model"
)

// Generator turns a system instruction and a prompt into text.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ErrUnavailable is returned by generators that have no backend configured.
var ErrUnavailable = errors.New("assistant: no text generator configured")

// ErrEmptyMessage is returned by Chat for a blank message.
var ErrEmptyMessage = errors.New("assistant: message is empty")

// Greeting opens every chat.
const Greeting = "Hello! I'm Tanvir's AI assistant. How can I help you?"

// FallbackReply is sent when generation fails.
const FallbackReply = "Sorry, I can't answer right now. Please try again in a moment or use the contact form."

// MaxSuggestions is the number of headlines SuggestHeadlines returns.
const MaxSuggestions = 3

const chatSystem = `You are the assistant on a digital marketing consultant's portfolio site.
Answer with practical marketing advice or a clear explanation of a strategy.
Keep answers under 120 words. Do not invent client names or results.`

const headlineSystem = `You write website headlines for a digital marketing consultant.
Return exactly three alternative headlines, one per line, with no numbering,
quotes or commentary.`

// Assistant wraps a Generator with prompts, fallbacks and output parsing.
type Assistant struct {
	gen    Generator
	logger *slog.Logger
}

// New returns an assistant. A nil gen behaves like Offline.
func New(gen Generator, logger *slog.Logger) *Assistant {
	if gen == nil {
		gen = Offline
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{gen: gen, logger: logger}
}

// Chat answers a visitor message. Generation failures are logged and
// answered with FallbackReply; only a blank message is an error.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	prompt := fmt.Sprintf("Topic: Marketing advice or strategy explanation.\nQuestion: %s", message)
	reply, err := a.gen.Generate(ctx, chatSystem, prompt)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			a.logger.Warn("chat generation failed", "err", err)
		}
		return FallbackReply, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// SuggestHeadlines proposes alternatives to the hero title for the named
// section. Without a generator it falls back to templated headlines built
// from the hero copy.
func (a *Assistant) SuggestHeadlines(ctx context.Context, hero model.Hero, section string) ([]string, error) {
	if section == "" {
		section = "hero"
	}
	prompt := fmt.Sprintf("Section: %s\nCurrent headline: %s\nConsultant: %s\nDescription: %s",
		section, hero.Title, hero.Name, hero.Description)

	text, err := a.gen.Generate(ctx, headlineSystem, prompt)
	if errors.Is(err, ErrUnavailable) {
		return templateHeadlines(hero), nil
	}
	if err != nil {
		return nil, fmt.Errorf("generate headlines: %w", err)
	}

	suggestions := ParseSuggestions(text)
	if len(suggestions) == 0 {
		return nil, errors.New("generate headlines: no usable lines in model output")
	}
	return suggestions, nil
}

// ParseSuggestions extracts up to MaxSuggestions headlines from model
// output, accepting either a JSON string array or one headline per line
// with optional numbering, bullets and quotes.
func ParseSuggestions(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var arr []string
	if json.Unmarshal([]byte(text), &arr) == nil {
		return clean(arr)
	}
	return clean(strings.Split(text, "\n"))
}

func clean(lines []string) []string {
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimLeft(l, "-*•· \t")
		l = trimNumbering(l)
		l = strings.Trim(l, "\"'“”*")
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// trimNumbering drops a leading "1." or "2)" marker.
func trimNumbering(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func templateHeadlines(hero model.Hero) []string {
	name := hero.Name
	if name == "" {
		name = model.Default().Hero.Name
	}
	return []string{
		"Data-Driven Marketing That Turns Clicks Into Customers",
		fmt.Sprintf("Grow Faster With %s: Strategy, Content and Ads That Convert", name),
		"Your Next Stage of Growth Starts With Smarter Marketing",
	}
}
