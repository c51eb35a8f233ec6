package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/integralforce/backend/core/nft"
)

type nftApi struct {
	svc      *nft.Service
	validate *validator.Validate
}

func registerNFTAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *nft.Service, validate *validator.Validate) {
	api := nftApi{svc: svc, validate: validate}

	ng := g.Group("/nft", jwt)
	ng.GET("/tiers", api.queryTiers)
	ng.GET("/gallery", api.queryGallery)
	ng.GET("/collection", api.queryCollection)
	ng.POST("/convert", api.convert)
	ng.POST("/mint", api.mint)
}

func (api *nftApi) queryTiers(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Tiers())
}

func (api *nftApi) queryGallery(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Gallery())
}

func (api *nftApi) queryCollection(ctx echo.Context) error {
	coll, err := api.svc.Collection()
	if err != nil {
		return errors.Wrap(err, "listing collection")
	}
	return ctx.JSON(http.StatusOK, coll)
}

func (api *nftApi) convert(ctx echo.Context) error {
	var data ConvertRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ConvertRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	minted, err := api.svc.Convert(data.Amount)
	if err != nil {
		return errors.Wrap(err, "converting KP")
	}
	return ctx.JSON(http.StatusCreated, minted)
}

func (api *nftApi) mint(ctx echo.Context) error {
	var data MintRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MintRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	minted, err := api.svc.Mint(data.ID)
	if err != nil {
		return errors.Wrap(err, "minting NFT")
	}
	return ctx.JSON(http.StatusCreated, minted)
}

type (
	ConvertRequest struct {
		Amount int `json:"amount" validate:"required,min=1"`
	}

	MintRequest struct {
		ID string `json:"id" validate:"required"`
	}
)

func (r *ConvertRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

func (r *MintRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
