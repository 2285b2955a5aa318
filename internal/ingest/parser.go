package ingest

import (
	"regexp"
	"strings"

	"github.com/examprep/backend/internal/models"
)

// The corpus this parser targets is OCR output of printed MCQ sheets:
// numbered prompts, lettered options, an "Answer:" line. Blocks that do
// not fit are skipped with a reason rather than failing the batch.
var (
	questionStart = regexp.MustCompile(`^\d+\.\s*`)
	optionLine    = regexp.MustCompile(`^[A-D]\.\s*`)
	answerLine    = regexp.MustCompile(`^Answer:\s*`)
)

// Skipped describes one block the parser rejected.
type Skipped struct {
	Block  int    `json:"block"`
	Reason string `json:"reason"`
}

// Parse splits raw text into question blocks and extracts an MCQ from
// each. Topic and difficulty are stamped on by the caller.
func Parse(text, topic string, difficulty models.Difficulty) ([]models.Question, []Skipped) {
	var (
		questions []models.Question
		skipped   []Skipped
		current   []string
		blocks    [][]string
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if questionStart.MatchString(line) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	for i, block := range blocks {
		q, reason := parseBlock(block, topic, difficulty)
		if reason != "" {
			skipped = append(skipped, Skipped{Block: i + 1, Reason: reason})
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped
}

func parseBlock(lines []string, topic string, difficulty models.Difficulty) (models.Question, string) {
	q := models.Question{Topic: topic, Difficulty: difficulty}

	var promptParts []string
	for _, line := range lines {
		switch {
		case optionLine.MatchString(line):
			q.Options = append(q.Options, strings.TrimSpace(optionLine.ReplaceAllString(line, "")))
		case answerLine.MatchString(line):
			q.Answer = resolveAnswer(strings.TrimSpace(answerLine.ReplaceAllString(line, "")), q.Options)
		default:
			promptParts = append(promptParts, questionStart.ReplaceAllString(line, ""))
		}
	}
	q.Prompt = strings.Join(promptParts, " ")

	switch {
	case q.Prompt == "":
		return q, "missing prompt"
	case len(q.Options) < 2:
		return q, "fewer than two options"
	case q.Answer == "":
		return q, "missing or unmatched answer"
	}
	return q, ""
}

// resolveAnswer accepts either the answer text itself or a bare option
// letter, and normalizes to the option text.
func resolveAnswer(raw string, options []string) string {
	if len(raw) == 1 {
		idx := int(raw[0] - 'A')
		if idx >= 0 && idx < len(options) {
			return options[idx]
		}
	}
	for _, opt := range options {
		if strings.EqualFold(opt, raw) {
			return opt
		}
	}
	return ""
}
