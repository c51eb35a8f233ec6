package nft

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core"
	"github.com/integralforce/backend/core/account"
	"github.com/integralforce/backend/core/content"
)

// customMinKP is the smallest custom conversion amount.
const customMinKP = 50

var ErrUnavailable = errors.New("NFT is no longer available for minting")

// Service converts Knowledge Points into mock collectibles, from the fixed
// conversion tiers or the mintable gallery catalog.
type Service struct {
	accts   *account.Service
	catalog *content.Catalog
}

func NewService(accts *account.Service, catalog *content.Catalog) *Service {
	return &Service{accts: accts, catalog: catalog}
}

func (svc *Service) Tiers() []content.NFTTier {
	return svc.catalog.NFTTiers()
}

func (svc *Service) Gallery() []content.GalleryNFT {
	return svc.catalog.Gallery()
}

// Collection returns the account's minted collectibles.
func (svc *Service) Collection() ([]account.NFT, error) {
	acct, err := svc.accts.Current()
	if err != nil {
		return nil, err
	}
	return acct.NFTs, nil
}

// Convert burns the given KP amount into a collectible. The amount must match
// a conversion tier or be a custom amount of at least 50 KP.
func (svc *Service) Convert(amount int) (account.NFT, error) {
	name, rarity := "Custom NFT", "Common"
	tier, err := svc.catalog.NFTTier(amount)
	switch errors.Cause(err) {
	case nil:
		name, rarity = tier.NFTType, tier.Rarity
	case content.ErrNotFound:
		if amount < customMinKP {
			return account.NFT{}, core.NewValidationError(nil,
				core.FieldError{Field: "amount", Error: "minimum conversion is 50 KP"})
		}
	default:
		return account.NFT{}, err
	}

	if err = svc.accts.DeductKP(amount, "NFT Conversion"); err != nil {
		return account.NFT{}, err
	}
	minted := account.NFT{
		ID:       uuid.New().String(),
		Name:     name,
		Rarity:   rarity,
		Category: "Conversion",
		KPCost:   amount,
		MintedAt: time.Now().UTC(),
	}
	if err = svc.accts.AddNFT(minted); err != nil {
		return account.NFT{}, errors.Wrap(err, "recording minted NFT")
	}
	return minted, nil
}

// Mint buys a collectible from the gallery catalog.
func (svc *Service) Mint(galleryID string) (account.NFT, error) {
	g, err := svc.catalog.GalleryNFT(galleryID)
	if err != nil {
		return account.NFT{}, err
	}
	if !g.Available {
		return account.NFT{}, ErrUnavailable
	}

	if err = svc.accts.DeductKP(g.Cost, "NFT Mint: "+g.Name); err != nil {
		return account.NFT{}, err
	}
	minted := account.NFT{
		ID:       uuid.New().String(),
		Name:     g.Name,
		Rarity:   g.Rarity,
		Category: g.Category,
		KPCost:   g.Cost,
		MintedAt: time.Now().UTC(),
	}
	if err = svc.accts.AddNFT(minted); err != nil {
		return account.NFT{}, errors.Wrap(err, "recording minted NFT")
	}
	return minted, nil
}
