package learn

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

// Fixed publishing rule: spend 10 KP to publish, earn 25 KP back.
const (
	publishCost   = 10
	publishReward = 25
)

type (
	// NewArticle is a community article submission.
	NewArticle struct {
		Title    string   `json:"title" validate:"required"`
		Excerpt  string   `json:"excerpt" validate:"required"`
		Content  string   `json:"content" validate:"required,min=100"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}

	// Service drives the Learn screen: reading static articles for points and
	// publishing community articles.
	Service struct {
		accts   *account.Service
		catalog *content.Catalog

		mutex     sync.RWMutex
		published []content.Article
	}
)

func (a *NewArticle) Validate(validate *validator.Validate) error {
	a.Title = core.CleanString(a.Title)
	a.Excerpt = core.CleanString(a.Excerpt)
	a.Content = core.CleanString(a.Content)
	return validate.Struct(a)
}

func NewService(accts *account.Service, catalog *content.Catalog) *Service {
	return &Service{accts: accts, catalog: catalog}
}

// Articles lists the static articles for the account's level.
func (svc *Service) Articles() ([]content.Article, error) {
	acct, err := svc.accts.Current()
	if err != nil {
		return nil, err
	}
	return svc.catalog.Articles(acct.Level), nil
}

func (svc *Service) Article(id string) (content.Article, error) {
	return svc.catalog.Article(id)
}

// CompleteReading awards the article's points and marks it complete. Reading
// the same article again awards nothing and returns 0; the completion marker
// makes the award idempotent.
func (svc *Service) CompleteReading(contentID string) (int, error) {
	art, err := svc.catalog.Article(contentID)
	if err != nil {
		return 0, err
	}
	acct, err := svc.accts.Current()
	if err != nil {
		return 0, err
	}
	if acct.HasCompleted(contentID) {
		return 0, nil
	}

	if err = svc.accts.AddKP(art.Points, "Reading Content"); err != nil {
		return 0, errors.Wrap(err, "crediting reading points")
	}
	if err = svc.accts.MarkContentComplete(contentID); err != nil {
		return 0, errors.Wrap(err, "marking content complete")
	}
	svc.maybeAwardScholarBadge(art.Level)
	return art.Points, nil
}

// maybeAwardScholarBadge grants a per-level badge once every article of that
// level has been completed.
func (svc *Service) maybeAwardScholarBadge(level string) {
	acct, err := svc.accts.Current()
	if err != nil {
		return
	}
	for _, a := range svc.catalog.Articles(level) {
		if !acct.HasCompleted(a.ID) {
			return
		}
	}
	_ = svc.accts.AddBadge("scholar-" + level)
}

// PublishArticle publishes a community article: it costs 10 KP and rewards 25.
// The debit and the credit apply in program order.
func (svc *Service) PublishArticle(na NewArticle) (content.Article, error) {
	acct, err := svc.accts.Current()
	if err != nil {
		return content.Article{}, err
	}

	if err = svc.accts.DeductKP(publishCost, "Article Publishing Cost"); err != nil {
		return content.Article{}, err
	}
	if err = svc.accts.AddKP(publishReward, "Article Publishing Reward"); err != nil {
		return content.Article{}, errors.Wrap(err, "crediting publishing reward")
	}

	words := len(strings.Fields(na.Content))
	readTime := (words + 199) / 200
	if readTime < 1 {
		readTime = 1
	}
	art := content.Article{
		ID:            uuid.New().String(),
		Title:         na.Title,
		Level:         acct.Level,
		Category:      na.Category,
		EstimatedTime: fmt.Sprintf("%d min", readTime),
		Excerpt:       na.Excerpt,
		Content:       na.Content,
	}

	svc.mutex.Lock()
	svc.published = append(svc.published, art)
	svc.mutex.Unlock()
	return art, nil
}

// Published lists community articles published during this session.
func (svc *Service) Published() []content.Article {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return append([]content.Article{}, svc.published...)
}
