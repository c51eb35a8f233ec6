package quiz

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

const (
	// Fixed rule: contributing a question costs 20 KP and requires holding at
	// least that much; the reward is a 10 KP base plus a difficulty bonus.
	addQuestionCost       = 20
	addQuestionBaseReward = 10

	// free-text answers within this similarity of the expected answer count
	// as correct (typos forgiven)
	answerMinSim = .9
)

var difficultyBonus = map[string]int{
	content.DifficultyEasy:     5,
	content.DifficultyModerate: 10,
	content.DifficultyHard:     15,
}

type (
	// Result reports a graded answer.
	Result struct {
		Correct     bool   `json:"correct"`
		KPEarned    int    `json:"kpEarned"`
		Answer      string `json:"answer"`
		Explanation string `json:"explanation"`
	}

	// NewQuestion is a community question submission for the quiz pool.
	NewQuestion struct {
		Question    string   `json:"question" validate:"required"`
		Category    string   `json:"category" validate:"required"`
		Difficulty  string   `json:"difficulty" validate:"required"`
		Options     []string `json:"options" validate:"required,min=2,dive,required"`
		Answer      string   `json:"answer" validate:"required"`
		Explanation string   `json:"explanation" validate:"required"`
	}

	// Service drives the quiz screens: difficulty-tiered banks, answer grading
	// and community question contributions.
	Service struct {
		accts   *account.Service
		catalog *content.Catalog

		mutex   sync.RWMutex
		pending []NewQuestion // contributed questions awaiting review
	}
)

func (q *NewQuestion) Validate(validate *validator.Validate) error {
	q.Question = core.CleanString(q.Question)
	q.Answer = core.CleanString(q.Answer)
	q.Explanation = core.CleanString(q.Explanation)
	if err := validate.Struct(q); err != nil {
		return err
	}
	if _, ok := difficultyBonus[q.Difficulty]; !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "difficulty", Error: "invalid difficulty"})
	}
	for _, opt := range q.Options {
		if MatchAnswer(q.Answer, opt) {
			return nil
		}
	}
	return core.NewValidationError(nil, core.FieldError{Field: "answer", Error: "answer must be one of the options"})
}

func NewService(accts *account.Service, catalog *content.Catalog) *Service {
	return &Service{accts: accts, catalog: catalog}
}

func (svc *Service) Questions(difficulty string) ([]content.QuizQuestion, error) {
	return svc.catalog.QuizQuestions(difficulty)
}

// SubmitAnswer grades one answer; a correct answer credits the question's
// points, a wrong one credits nothing.
func (svc *Service) SubmitAnswer(difficulty, questionID, answer string) (Result, error) {
	q, err := svc.catalog.QuizQuestion(difficulty, questionID)
	if err != nil {
		return Result{}, err
	}

	res := Result{Answer: q.Answer, Explanation: q.Explanation}
	if !MatchAnswer(q.Answer, answer) {
		// still requires a logged-in account
		if _, err = svc.accts.Current(); err != nil {
			return Result{}, err
		}
		return res, nil
	}

	if err = svc.accts.AddKP(q.Points, "Quiz Answer"); err != nil {
		return Result{}, err
	}
	res.Correct = true
	res.KPEarned = q.Points
	return res, nil
}

// AddQuestion contributes a question to the quiz pool. It requires at least
// 20 KP: the contribution costs 20 and rewards 10 plus the difficulty bonus
// (easy 5, moderate 10, hard 15), applied in program order.
func (svc *Service) AddQuestion(nq NewQuestion) (int, error) {
	if err := svc.accts.DeductKP(addQuestionCost, "Question Creation Cost"); err != nil {
		return 0, err
	}
	reward := addQuestionBaseReward + difficultyBonus[nq.Difficulty]
	if err := svc.accts.AddKP(reward, "Question Creation Reward"); err != nil {
		return 0, err
	}

	svc.mutex.Lock()
	svc.pending = append(svc.pending, nq)
	svc.mutex.Unlock()
	return reward, nil
}

// Pending lists questions contributed during this session.
func (svc *Service) Pending() []NewQuestion {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return append([]NewQuestion{}, svc.pending...)
}

// MatchAnswer compares a given answer against the expected one,
// case-insensitively and forgiving of near-miss typing.
func MatchAnswer(expected, given string) bool {
	e := core.CleanString(expected, true)
	g := core.CleanString(given, true)
	if e == g {
		return true
	}
	if e == "" || g == "" {
		return false
	}
	return difflib.NewMatcher(strings.Split(g, ""), strings.Split(e, "")).QuickRatio() >= answerMinSim
}
