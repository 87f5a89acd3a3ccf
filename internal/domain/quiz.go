package domain

// Question is one multiple-choice item of a question set version
type Question struct {
	ID      int64    `json:"id"`
	Version string   `json:"version"`
	Text    string   `json:"question"`
	Note    string   `json:"etc,omitempty"`
	Answers []Answer `json:"answers"`
}

// Answer is one choice of a question
type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"answer"`
	Correct    bool   `json:"correct"`
	Note       string `json:"etc,omitempty"`
}

// Score is the graded result of a submitted quiz
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Quiz is one attempt at a question set. Answers are already shuffled.
type Quiz struct {
	Version   string
	Questions []Question
	Current   int
	Choices   map[int64]int64 // question id -> answer id
	Submitted bool
	Score     *Score
}

// NewQuiz creates an attempt over questions
func NewQuiz(version string, questions []Question) *Quiz {
	return &Quiz{
		Version:   version,
		Questions: questions,
		Choices:   make(map[int64]int64),
	}
}

// CurrentQuestion returns the focused question or nil for an empty quiz
func (q *Quiz) CurrentQuestion() *Question {
	if q.Current < 0 || q.Current >= len(q.Questions) {
		return nil
	}
	return &q.Questions[q.Current]
}

// Choose records an answer. Ignored after submit or for unknown ids.
func (q *Quiz) Choose(questionID, answerID int64) bool {
	if q.Submitted {
		return false
	}
	for _, question := range q.Questions {
		if question.ID != questionID {
			continue
		}
		for _, a := range question.Answers {
			if a.ID == answerID {
				q.Choices[questionID] = answerID
				return true
			}
		}
	}
	return false
}

// Prev moves focus back, stopping at the first question
func (q *Quiz) Prev() {
	if q.Current > 0 {
		q.Current--
	}
}

// Next moves focus forward, stopping at the last question
func (q *Quiz) Next() {
	if q.Current < len(q.Questions)-1 {
		q.Current++
	}
}

// Progress returns the rounded percentage of the focused position
func (q *Quiz) Progress() int {
	if len(q.Questions) == 0 {
		return 0
	}
	return ((q.Current+1)*100 + len(q.Questions)/2) / len(q.Questions)
}

// Unanswered returns indexes of questions without a choice
func (q *Quiz) Unanswered() []int {
	var idx []int
	for i, question := range q.Questions {
		if _, ok := q.Choices[question.ID]; !ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// Submit grades the attempt. With unanswered questions it focuses the first of them
// and returns ErrUnanswered.
func (q *Quiz) Submit() (Score, error) {
	if len(q.Questions) == 0 {
		return Score{}, ErrNotFound
	}
	if missing := q.Unanswered(); len(missing) > 0 {
		q.Current = missing[0]
		return Score{}, ErrUnanswered
	}

	score := Score{Total: len(q.Questions)}
	for _, question := range q.Questions {
		if q.IsCorrect(question.ID) {
			score.Correct++
		}
	}

	q.Submitted = true
	q.Score = &score
	q.Current = 0
	return score, nil
}

// IsCorrect reports whether the chosen answer of a question is correct
func (q *Quiz) IsCorrect(questionID int64) bool {
	picked, ok := q.Choices[questionID]
	if !ok {
		return false
	}
	for _, question := range q.Questions {
		if question.ID != questionID {
			continue
		}
		for _, a := range question.Answers {
			if a.ID == picked {
				return a.Correct
			}
		}
	}
	return false
}
