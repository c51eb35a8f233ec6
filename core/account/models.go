package account

import (
	"strconv"
	"time"
)

// Levels
const (
	LevelKids       = "kids"
	LevelAdolescent = "adolescent"
	LevelAdult      = "adult"
)

var Levels = []string{LevelKids, LevelAdolescent, LevelAdult}

func IsValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

var NowFunc = time.Now // mockable

type (
	// NFT is a collectible minted by spending Knowledge Points. It is recorded
	// as-is; no invariant ties the collection to the KP ledger.
	NFT struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Rarity   string    `json:"rarity"`
		Category string    `json:"category,omitempty"`
		KPCost   int       `json:"kpCost"`
		MintedAt time.Time `json:"mintedAt"` // UTC
	}

	// StakeRecord is an append-only entry in the account's staking history.
	StakeRecord struct {
		ID           string    `json:"id"`
		OptionID     string    `json:"optionId"`
		Name         string    `json:"name"`
		Action       string    `json:"action"` // "staked" | "claimed"
		InvestmentKP int       `json:"investmentKP"`
		ReturnKP     int       `json:"returnKP"`
		RecordedAt   time.Time `json:"recordedAt"` // UTC
	}

	// Account is the sole mutable entity: the logged-in user's identity,
	// Knowledge Point balance and progress markers. Its JSON form is the
	// persisted snapshot layout.
	Account struct {
		ID               string        `json:"id"`
		Username         string        `json:"username"`
		KnowledgePoints  int           `json:"knowledgePoints"`
		Level            string        `json:"level"`
		Interests        []string      `json:"interests"`
		CompletedContent []string      `json:"completedContent"`
		Badges           []string      `json:"badges"`
		StakingHistory   []StakeRecord `json:"stakingHistory"`
		NFTs             []NFT         `json:"nfts"`
	}
)

// New constructs a fresh account for the given username. The ID is derived from
// the current time in unix milliseconds; uniqueness across same-millisecond
// calls is not guaranteed, which is acceptable in a single-user session.
func New(username string, startingKP int) Account {
	return Account{
		ID:               strconv.FormatInt(NowFunc().UnixNano()/int64(time.Millisecond), 10),
		Username:         username,
		KnowledgePoints:  startingKP,
		Level:            LevelKids,
		Interests:        []string{},
		CompletedContent: []string{},
		Badges:           []string{},
		StakingHistory:   []StakeRecord{},
		NFTs:             []NFT{},
	}
}

func (a Account) HasCompleted(contentID string) bool {
	for _, id := range a.CompletedContent {
		if id == contentID {
			return true
		}
	}
	return false
}

func (a Account) HasBadge(badge string) bool {
	for _, b := range a.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// clone returns a deep copy; readers never share the mutable struct.
func (a Account) clone() Account {
	c := a
	c.Interests = append([]string{}, a.Interests...)
	c.CompletedContent = append([]string{}, a.CompletedContent...)
	c.Badges = append([]string{}, a.Badges...)
	c.StakingHistory = append([]StakeRecord{}, a.StakingHistory...)
	c.NFTs = append([]NFT{}, a.NFTs...)
	return c
}
