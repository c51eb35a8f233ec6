package game

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrSessionNotFound = errors.New("game session not found")
	ErrTimeUp          = errors.New("game time is up")
	ErrAllAnswered     = errors.New("all questions already answered")
)

type (
	// Session is a running game for the logged-in user.
	Session struct {
		ID        string       `json:"id"`
		Game      content.Game `json:"game"`
		StartedAt time.Time    `json:"startedAt"`
		Deadline  time.Time    `json:"deadline"`
	}

	// Result reports a finished game.
	Result struct {
		Score          int `json:"score"` // 0-100
		TotalQuestions int `json:"totalQuestions"`
		CorrectAnswers int `json:"correctAnswers"`
		KPEarned       int `json:"kpEarned"`
		TimeTaken      int `json:"timeTaken"` // seconds
	}

	session struct {
		Session
		answers []int
	}

	// Service drives the trivia games: entry costs, timed sessions and the
	// performance-tiered rewards.
	Service struct {
		accts   *account.Service
		catalog *content.Catalog

		mutex    sync.Mutex
		sessions map[string]*session
	}
)

func NewService(accts *account.Service, catalog *content.Catalog) *Service {
	return &Service{
		accts:    accts,
		catalog:  catalog,
		sessions: make(map[string]*session),
	}
}

func (svc *Service) Games() []content.Game {
	return svc.catalog.Games()
}

// Start debits the game's entry cost and opens a timed session.
func (svc *Service) Start(gameID string) (Session, error) {
	g, err := svc.catalog.Game(gameID)
	if err != nil {
		return Session{}, err
	}
	if err = svc.accts.DeductKP(g.KPCost, g.Title+" game entry"); err != nil {
		return Session{}, err
	}

	now := NowFunc()
	sess := &session{
		Session: Session{
			ID:        uuid.New().String(),
			Game:      g,
			StartedAt: now,
			Deadline:  now.Add(time.Duration(g.TimeLimit) * time.Second),
		},
	}
	svc.mutex.Lock()
	svc.sessions[sess.ID] = sess
	svc.mutex.Unlock()
	return sess.Session, nil
}

// SubmitAnswer records the answer index for the next unanswered question.
// Answers past the deadline are rejected; the game can still be finished and
// scores only what was submitted in time.
func (svc *Service) SubmitAnswer(sessionID string, answerIndex int) error {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	sess, ok := svc.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if NowFunc().After(sess.Deadline) {
		return ErrTimeUp
	}
	if len(sess.answers) >= len(sess.Game.Questions) {
		return ErrAllAnswered
	}
	sess.answers = append(sess.answers, answerIndex)
	return nil
}

// Finish scores the session and credits the performance-tiered reward:
// the full reward at a score of 80+, 70% at 60+, 40% at 40+, nothing below.
func (svc *Service) Finish(sessionID string) (Result, error) {
	svc.mutex.Lock()
	sess, ok := svc.sessions[sessionID]
	if ok {
		delete(svc.sessions, sessionID)
	}
	svc.mutex.Unlock()
	if !ok {
		return Result{}, ErrSessionNotFound
	}

	var correct int
	for i, answer := range sess.answers {
		if answer == sess.Game.Questions[i].Correct {
			correct++
		}
	}
	total := len(sess.Game.Questions)
	var score int
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	var earned int
	switch {
	case score >= 80:
		earned = sess.Game.KPReward
	case score >= 60:
		earned = int(math.Round(float64(sess.Game.KPReward) * 0.7))
	case score >= 40:
		earned = int(math.Round(float64(sess.Game.KPReward) * 0.4))
	}

	res := Result{
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		KPEarned:       earned,
		TimeTaken:      int(NowFunc().Sub(sess.StartedAt) / time.Second),
	}
	if earned > 0 {
		if err := svc.accts.AddKP(earned, sess.Game.Title+" game completion"); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}
