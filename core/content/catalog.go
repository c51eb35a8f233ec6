package content

import (
	"encoding/json"
	"io/fs"

	"github.com/pkg/errors"

	appfs "github.com/integralforce/backend/fs"
)

var ErrNotFound = errors.New("content not found")

// Catalog holds every static content fixture, loaded once at startup and
// consumed read-only by the feature services.
type Catalog struct {
	articles    []Article
	quiz        map[string][]QuizQuestion // keyed by difficulty
	games       []Game
	chats       []ChatDef
	nftTiers    []NFTTier
	gallery     []GalleryNFT
	stakes      []StakeOption
	leaderboard []LeaderboardEntry
}

// NewCatalog parses the embedded fixtures.
func NewCatalog() (*Catalog, error) {
	return loadCatalog(appfs.FS)
}

func loadCatalog(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	for name, dst := range map[string]interface{}{
		"learn.json":       &c.articles,
		"quiz.json":        &c.quiz,
		"games.json":       &c.games,
		"chats.json":       &c.chats,
		"nft_tiers.json":   &c.nftTiers,
		"gallery.json":     &c.gallery,
		"staking.json":     &c.stakes,
		"leaderboard.json": &c.leaderboard,
	} {
		data, err := fs.ReadFile(fsys, "fixtures/"+name)
		if err != nil {
			return nil, errors.Wrap(err, "reading fixture "+name)
		}
		if err = json.Unmarshal(data, dst); err != nil {
			return nil, errors.Wrap(err, "parsing fixture "+name)
		}
	}
	return c, nil
}

// Articles returns the articles for a level; an empty level returns all.
func (c *Catalog) Articles(level string) []Article {
	if level == "" {
		return c.articles
	}
	arts := make([]Article, 0, len(c.articles))
	for _, a := range c.articles {
		if a.Level == level {
			arts = append(arts, a)
		}
	}
	return arts
}

func (c *Catalog) Article(id string) (Article, error) {
	for _, a := range c.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

// QuizQuestions returns the question bank for a difficulty tier.
func (c *Catalog) QuizQuestions(difficulty string) ([]QuizQuestion, error) {
	if !IsValidDifficulty(difficulty) {
		return nil, ErrNotFound
	}
	return c.quiz[difficulty], nil
}

func (c *Catalog) QuizQuestion(difficulty, id string) (QuizQuestion, error) {
	qs, err := c.QuizQuestions(difficulty)
	if err != nil {
		return QuizQuestion{}, err
	}
	for _, q := range qs {
		if q.ID == id {
			return q, nil
		}
	}
	return QuizQuestion{}, ErrNotFound
}

func (c *Catalog) Games() []Game {
	return c.games
}

func (c *Catalog) Game(id string) (Game, error) {
	for _, g := range c.games {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, ErrNotFound
}

func (c *Catalog) Chats() []ChatDef {
	return c.chats
}

func (c *Catalog) Chat(id string) (ChatDef, error) {
	for _, ch := range c.chats {
		if ch.ID == id {
			return ch, nil
		}
	}
	return ChatDef{}, ErrNotFound
}

func (c *Catalog) NFTTiers() []NFTTier {
	return c.nftTiers
}

// NFTTier finds the tier matching an exact KP amount.
func (c *Catalog) NFTTier(kp int) (NFTTier, error) {
	for _, t := range c.nftTiers {
		if t.KP == kp {
			return t, nil
		}
	}
	return NFTTier{}, ErrNotFound
}

func (c *Catalog) Gallery() []GalleryNFT {
	return c.gallery
}

func (c *Catalog) GalleryNFT(id string) (GalleryNFT, error) {
	for _, n := range c.gallery {
		if n.ID == id {
			return n, nil
		}
	}
	return GalleryNFT{}, ErrNotFound
}

func (c *Catalog) StakeOptions() []StakeOption {
	return c.stakes
}

func (c *Catalog) StakeOption(id string) (StakeOption, error) {
	for _, s := range c.stakes {
		if s.ID == id {
			return s, nil
		}
	}
	return StakeOption{}, ErrNotFound
}

func (c *Catalog) Leaderboard() []LeaderboardEntry {
	return c.leaderboard
}
