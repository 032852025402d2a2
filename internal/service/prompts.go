package service

import (
	"fmt"
	"strings"

	"github.com/PRIYADHARSANK/Study-Tool/internal/domain"
)

const summarizeSystemPrompt = `You are an AI assistant that specializes in summarizing lecture notes.`

func buildSummarizeMessage() string {
	return `Given the attached PDF document of lecture notes, create a concise, bullet-point summary of the key concepts.`
}

const quizSystemPrompt = `You are an expert at creating multiple-choice quizzes from lecture notes.`

func buildQuizMessage(previous []domain.QuizQuestion) string {
	var b strings.Builder

	b.WriteString(`Create a 3-question multiple-choice quiz based on the content of the attached PDF document.

The quiz should test the user's understanding of the key concepts and ideas presented in the document.

The quiz must have exactly 3 questions, each with exactly 4 possible answers. One of the answers must be the correct answer, repeated verbatim in the correctAnswer field.`)

	if len(previous) > 0 {
		b.WriteString("\n\nAvoid repeating these previously generated questions:\n")
		for _, q := range previous {
			b.WriteString(fmt.Sprintf("- %s\n", q.Question))
		}
	}

	return b.String()
}

const askSystemPrompt = `You are an expert AI assistant that provides complete and detailed answers to questions based on the content of a PDF document.`

func buildAskMessage(question string) string {
	return fmt.Sprintf(`Use the attached PDF document as the primary source of information.

Provide a complete and detailed answer to the following question.

Question: %s`, question)
}
