package account

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
)

// SnapshotKey is the fixed key under which the whole account snapshot is persisted.
const SnapshotKey = "icpEducationUser"

var (
	// errors
	ErrNotLoggedIn    = errors.New("no account is logged in")
	ErrLoggedIn       = errors.New("an account is already logged in")
	ErrInsufficientKP = errors.New("insufficient knowledge points")
	ErrNoSnapshot     = errors.New("account snapshot not found")
)

type (
	// SnapshotRepository persists the whole account as one blob under one fixed
	// key. Load returns ErrNoSnapshot when no snapshot exists.
	SnapshotRepository interface {
		Load() ([]byte, error)
		Save(data []byte) error
		Remove() error
	}

	// Service is the single source of truth for the logged-in user's identity
	// and point balance; it mediates every balance change in the application.
	// At most one account exists at a time. Every mutation persists the full
	// snapshot; a failing write is logged and otherwise unobserved.
	Service struct {
		mu     sync.Mutex
		repo   SnapshotRepository
		logger core.Logger
		conf   *core.Config

		acct *Account
	}
)

// NewService builds the account store and rehydrates any persisted snapshot.
// A corrupt or unreadable snapshot starts the store logged out.
func NewService(repo SnapshotRepository, logger core.Logger, conf *core.Config) *Service {
	svc := &Service{repo: repo, logger: logger, conf: conf}

	data, err := repo.Load()
	switch errors.Cause(err) {
	case nil:
		var acct Account
		if err = json.Unmarshal(data, &acct); err != nil {
			logger.Error("unmarshalling account snapshot", errors.Wrap(err, "unmarshalling account snapshot"))
			break
		}
		svc.acct = &acct
	case ErrNoSnapshot: // logged out
	default:
		logger.Error("loading account snapshot", errors.Wrap(err, "loading account snapshot"))
	}
	return svc
}

// Login replaces the store's account with a freshly constructed one holding the
// starting balance. When an account is already present, it fails with ErrLoggedIn
// unless relogin is explicitly enabled in config, in which case the prior account
// is discarded.
func (svc *Service) Login(username string) (Account, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct != nil && !svc.conf.Account.AllowRelogin {
		return Account{}, ErrLoggedIn
	}

	acct := New(core.CleanString(username), svc.conf.Account.StartingKP)
	svc.acct = &acct
	svc.persist()
	svc.logger.Info(fmt.Sprintf("account %q logged in with %d KP", acct.Username, acct.KnowledgePoints))
	return acct.clone(), nil
}

// Logout clears the in-memory account and removes the persisted snapshot.
// It is a no-op when no account is present.
func (svc *Service) Logout() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.acct = nil
	if err := svc.repo.Remove(); err != nil && errors.Cause(err) != ErrNoSnapshot {
		svc.logger.Error("removing account snapshot", errors.Wrap(err, "removing account snapshot"))
	}
}

// Current returns a copy of the logged-in account.
func (svc *Service) Current() (Account, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return Account{}, ErrNotLoggedIn
	}
	return svc.acct.clone(), nil
}

// AddKP credits the balance. The source string is used for observability only.
func (svc *Service) AddKP(points int, source string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	svc.acct.KnowledgePoints += points
	svc.persist()
	svc.logger.Info(fmt.Sprintf("+%d KP from %s", points, source))
	return nil
}

// DeductKP debits the balance. It fails with ErrInsufficientKP - leaving the
// account unchanged - when the balance does not cover the requested amount.
func (svc *Service) DeductKP(points int, source string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	if svc.acct.KnowledgePoints < points {
		return ErrInsufficientKP
	}
	svc.acct.KnowledgePoints -= points
	svc.persist()
	svc.logger.Info(fmt.Sprintf("-%d KP for %s", points, source))
	return nil
}

func (svc *Service) UpdateLevel(level string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	if !IsValidLevel(level) {
		return core.NewValidationError(nil, core.FieldError{Field: "level", Error: "invalid level"})
	}
	svc.acct.Level = level
	svc.persist()
	return nil
}

// SetInterests replaces the interests collection wholesale.
func (svc *Service) SetInterests(interests []string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	svc.acct.Interests = append([]string{}, interests...)
	svc.persist()
	return nil
}

// MarkContentComplete records that a static lesson/article has been finished.
// Idempotent: marking the same content twice is the same as marking it once.
func (svc *Service) MarkContentComplete(contentID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	if svc.acct.HasCompleted(contentID) {
		return nil
	}
	svc.acct.CompletedContent = append(svc.acct.CompletedContent, contentID)
	svc.persist()
	return nil
}

// AddBadge awards a badge. Idempotent.
func (svc *Service) AddBadge(badge string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	if svc.acct.HasBadge(badge) {
		return nil
	}
	svc.acct.Badges = append(svc.acct.Badges, badge)
	svc.persist()
	return nil
}

// AddNFT appends a minted collectible to the account.
func (svc *Service) AddNFT(nft NFT) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	svc.acct.NFTs = append(svc.acct.NFTs, nft)
	svc.persist()
	return nil
}

// AddStakeRecord appends an entry to the account's staking history.
func (svc *Service) AddStakeRecord(rec StakeRecord) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.acct == nil {
		return ErrNotLoggedIn
	}
	svc.acct.StakingHistory = append(svc.acct.StakingHistory, rec)
	svc.persist()
	return nil
}

// persist writes the full snapshot. Failures are logged and never propagated:
// the in-memory state stays correct for the session but will not survive a
// restart. Callers must hold the lock.
func (svc *Service) persist() {
	data, err := json.Marshal(svc.acct)
	if err != nil {
		svc.logger.Error("marshalling account snapshot", errors.Wrap(err, "marshalling account snapshot"))
		return
	}
	if err = svc.repo.Save(data); err != nil {
		svc.logger.Error("persisting account snapshot", errors.Wrap(err, "persisting account snapshot"))
	}
}
