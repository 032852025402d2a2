package service

import (
	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
	"github.com/PRIYADHARSANK/Study-Tool/internal/llm"
)

// SummarySchema is the output shape of the summarize flow.
var SummarySchema = &llm.Schema{
	Name:        "lecture-summary",
	Description: "A concise, bullet-point summary of lecture notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "A concise, bullet-point summary of the lecture notes.",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}

// QuizSchema is the output shape of the quiz-generation flow: exactly 3
// questions with exactly 4 options each. Membership of correctAnswer in
// options is checked separately; JSON Schema cannot express it.
var QuizSchema = &llm.Schema{
	Name:        "exam-quiz",
	Description: "A 3-question multiple-choice quiz generated from lecture notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "An array of 3 multiple-choice questions.",
				"minItems":    domain.QuizQuestionCount,
				"maxItems":    domain.QuizQuestionCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The text of the question.",
						},
						"options": map[string]any{
							"type":        "array",
							"description": "The possible answers.",
							"minItems":    domain.QuizOptionCount,
							"maxItems":    domain.QuizOptionCount,
							"items":       map[string]any{"type": "string"},
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The correct answer. Must be one of the options.",
						},
					},
					"required":             []any{"question", "options", "correctAnswer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// AnswerSchema is the output shape of the question-answering flow.
var AnswerSchema = &llm.Schema{
	Name:        "notes-answer",
	Description: "A complete and detailed answer to a question about the document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "The complete and detailed answer to the question about the document.",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}
