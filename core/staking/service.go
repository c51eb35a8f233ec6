package staking

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
	"github.com/integralforce/backend/core/quiz"
)

var (
	// errors
	ErrStakeNotFound    = errors.New("stake not found")
	ErrStakeNotComplete = errors.New("stake has unanswered questions")
)

type (
	// Stake is an active staking position: an investment waiting to be earned
	// back by answering questions from the option's difficulty bank.
	Stake struct {
		ID                string              `json:"id"`
		Option            content.StakeOption `json:"option"`
		QuestionsAnswered int                 `json:"questionsAnswered"`
		StartedAt         time.Time           `json:"startedAt"`
	}

	// AnswerResult reports a graded staking question.
	AnswerResult struct {
		Correct           bool `json:"correct"`
		QuestionsAnswered int  `json:"questionsAnswered"`
		QuestionsRequired int  `json:"questionsRequired"`
		Claimable         bool `json:"claimable"`
	}

	// Service drives Knowledge Staking: invest KP, answer enough questions
	// correctly, claim the return. Every position and payout is recorded in
	// the account's append-only staking history.
	Service struct {
		accts   *account.Service
		catalog *content.Catalog

		mutex  sync.Mutex
		active map[string]*Stake
	}
)

func NewService(accts *account.Service, catalog *content.Catalog) *Service {
	return &Service{
		accts:   accts,
		catalog: catalog,
		active:  make(map[string]*Stake),
	}
}

func (svc *Service) Options() []content.StakeOption {
	return svc.catalog.StakeOptions()
}

// Active lists the running stakes.
func (svc *Service) Active() []Stake {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	stakes := make([]Stake, 0, len(svc.active))
	for _, s := range svc.active {
		stakes = append(stakes, *s)
	}
	return stakes
}

// Stake debits the option's investment and opens a position.
func (svc *Service) Stake(optionID string) (Stake, error) {
	opt, err := svc.catalog.StakeOption(optionID)
	if err != nil {
		return Stake{}, err
	}
	if err = svc.accts.DeductKP(opt.InvestmentKP, "Staked in "+opt.Name); err != nil {
		return Stake{}, err
	}

	stake := &Stake{
		ID:        uuid.New().String(),
		Option:    opt,
		StartedAt: time.Now().UTC(),
	}
	if err = svc.accts.AddStakeRecord(account.StakeRecord{
		ID:           stake.ID,
		OptionID:     opt.ID,
		Name:         opt.Name,
		Action:       "staked",
		InvestmentKP: opt.InvestmentKP,
		ReturnKP:     opt.ReturnKP,
		RecordedAt:   stake.StartedAt,
	}); err != nil {
		return Stake{}, errors.Wrap(err, "recording stake")
	}

	svc.mutex.Lock()
	svc.active[stake.ID] = stake
	svc.mutex.Unlock()
	return *stake, nil
}

// Question serves the next question for a stake from its difficulty bank,
// cycling through the bank as answers accumulate.
func (svc *Service) Question(stakeID string) (content.QuizQuestion, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	stake, ok := svc.active[stakeID]
	if !ok {
		return content.QuizQuestion{}, ErrStakeNotFound
	}

	qs, err := svc.catalog.QuizQuestions(stake.Option.Difficulty)
	if err != nil {
		return content.QuizQuestion{}, err
	}
	if len(qs) == 0 {
		return content.QuizQuestion{}, content.ErrNotFound
	}
	return qs[stake.QuestionsAnswered%len(qs)], nil
}

// AnswerQuestion grades an answer against the stake's question bank; correct
// answers progress the stake toward its claim.
func (svc *Service) AnswerQuestion(stakeID, questionID, answer string) (AnswerResult, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	stake, ok := svc.active[stakeID]
	if !ok {
		return AnswerResult{}, ErrStakeNotFound
	}

	q, err := svc.catalog.QuizQuestion(stake.Option.Difficulty, questionID)
	if err != nil {
		return AnswerResult{}, err
	}

	res := AnswerResult{QuestionsRequired: stake.Option.QuestionsRequired}
	if quiz.MatchAnswer(q.Answer, answer) {
		res.Correct = true
		stake.QuestionsAnswered++
	}
	res.QuestionsAnswered = stake.QuestionsAnswered
	res.Claimable = stake.QuestionsAnswered >= stake.Option.QuestionsRequired
	return res, nil
}

// Claim credits the option's return once enough questions are answered and
// closes the position.
func (svc *Service) Claim(stakeID string) (int, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	stake, ok := svc.active[stakeID]
	if !ok {
		return 0, ErrStakeNotFound
	}
	if stake.QuestionsAnswered < stake.Option.QuestionsRequired {
		return 0, ErrStakeNotComplete
	}

	if err := svc.accts.AddKP(stake.Option.ReturnKP, "Staking reward: "+stake.Option.Name); err != nil {
		return 0, err
	}
	if err := svc.accts.AddStakeRecord(account.StakeRecord{
		ID:           stake.ID,
		OptionID:     stake.Option.ID,
		Name:         stake.Option.Name,
		Action:       "claimed",
		InvestmentKP: stake.Option.InvestmentKP,
		ReturnKP:     stake.Option.ReturnKP,
		RecordedAt:   time.Now().UTC(),
	}); err != nil {
		return 0, errors.Wrap(err, "recording claim")
	}

	delete(svc.active, stakeID)
	return stake.Option.ReturnKP, nil
}
