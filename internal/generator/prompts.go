package generator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyBeginner:     "Test recall of basic syntax, built-in behaviour and core vocabulary. A learner with a few weeks of practice should answer correctly.",
	models.DifficultyIntermediate: "Test applying concepts to short code snippets or everyday tasks. Distractors should reflect common misunderstandings.",
	models.DifficultyAdvanced:     "Test internals, performance trade-offs and subtle edge cases. At least two distractors should be plausible to an intermediate learner.",
}

func SystemPrompt() string {
	return `You are an experienced programming instructor writing placement questions that estimate a learner's skill level in a technical subject.

QUESTION RULES:
- Each question is multiple choice with exactly 4 options
- Exactly ONE option is correct
- Options are short, distinct and never "all of the above" or "none of the above"
- The correct_answer field repeats the correct option text verbatim
- Every question is tagged with exactly one topic from the list provided
- Every question uses the difficulty tier requested

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func BuildUserPrompt(subject string, topics []string, difficulty models.Difficulty, count int) string {
	return fmt.Sprintf(`Generate exactly %d multiple choice questions.

Subject: %s
Difficulty: %s
Topics: %s
Count: %d

Difficulty guidance:
%s

Respond with this exact JSON structure:
{
  "questions": [
    {
      "text": "...",
      "options": ["...", "...", "...", "..."],
      "correct_answer": "...",
      "difficulty": "%s",
      "topic": "..."
    }
  ]
}`, count, subject, difficulty, strings.Join(topics, ", "), count, difficultyGuidance[difficulty], difficulty)
}

type promptRequest struct {
	subject    string
	difficulty models.Difficulty
	topics     []string
	count      int
}

// parsePromptRequest reads the header fields BuildUserPrompt writes.
func parsePromptRequest(prompt string) promptRequest {
	req := promptRequest{count: 1}
	for _, line := range strings.Split(prompt, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Subject":
			req.subject = value
		case "Difficulty":
			req.difficulty = models.Difficulty(value)
		case "Topics":
			for _, t := range strings.Split(value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					req.topics = append(req.topics, t)
				}
			}
		case "Count":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				req.count = n
			}
		}
	}
	return req
}

func mustMarshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
