package domain

// A generated quiz always has exactly QuizQuestionCount questions, each with
// exactly QuizOptionCount options.
const (
	QuizQuestionCount = 3
	QuizOptionCount   = 4
)

// QuizQuestion is one multiple-choice question. CorrectAnswer is always a
// member of Options; quiz generation rejects model output that violates this.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Quiz is an ordered set of generated questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// GenerateQuizRequest optionally carries previously generated questions so the
// model is biased away from repeating them. Uniqueness across regenerations is
// advisory, not enforced.
type GenerateQuizRequest struct {
	PreviousQuestions []QuizQuestion `json:"previousQuestions,omitempty"`
}

// ScoreQuizRequest maps question index to the selected option text. A complete
// selection set is required.
type ScoreQuizRequest struct {
	Selections []string `json:"selections" binding:"required"`
}

// ScoreQuizResponse reports how many selections matched the correct answer.
type ScoreQuizResponse struct {
	Score int `json:"score"`
	Total int `json:"total"`
}
