package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/pkg/bind"
	"github.com/shashiranjanraj/nftlisting/pkg/ctx"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
)

// pictureField is the multipart part carrying the image.
const pictureField = "picture"

type NFTController struct {
	catalog *services.CatalogService
}

func NewNFTController(catalog *services.CatalogService) *NFTController {
	return &NFTController{catalog: catalog}
}

// Store handles POST /nfts (multipart).
func (nc *NFTController) Store(c *ctx.Context) {
	if !c.IsMultipart() {
		c.Error(http.StatusBadRequest, "Expected multipart/form-data")
		return
	}
	var in models.NFTInput
	errs, err := bind.Form(c.R, &in)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}

	image, closeImage := nc.picture(c)
	defer closeImage()
	if image == nil {
		errs[pictureField] = "The picture field is required."
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}

	identity, _ := c.UserID()
	nft, err := nc.catalog.Create(c.Context(), identity, in, image)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, nft)
}

// Index handles GET /nfts.
func (nc *NFTController) Index(c *ctx.Context) {
	nfts, err := nc.catalog.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nfts)
}

// Mine handles GET /my-nfts.
func (nc *NFTController) Mine(c *ctx.Context) {
	identity, _ := c.UserID()
	nfts, err := nc.catalog.ListMine(c.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nfts)
}

// Show handles GET /nfts/{id}.
func (nc *NFTController) Show(c *ctx.Context) {
	nft, err := nc.catalog.Get(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nft)
}

// Update handles PATCH /nfts/{id}. The body is multipart (optional picture)
// or JSON; an empty body changes nothing. The record and the caller's rights
// are checked before the body is read.
func (nc *NFTController) Update(c *ctx.Context) {
	identity, _ := c.UserID()
	if _, err := nc.catalog.Editable(c.Context(), identity, c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	var changes models.NFTChanges
	var image io.Reader

	if c.IsMultipart() {
		if !c.BindForm(&changes) {
			return
		}
		var closeImage func()
		image, closeImage = nc.picture(c)
		defer closeImage()
	} else if !c.BindJSON(&changes) {
		return
	}

	nft, err := nc.catalog.Update(c.Context(), identity, c.Param("id"), changes, image)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nft)
}

// Destroy handles DELETE /nfts/{id} and returns the deleted record.
func (nc *NFTController) Destroy(c *ctx.Context) {
	identity, _ := c.UserID()
	nft, err := nc.catalog.Delete(c.Context(), identity, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nft)
}

// Image handles GET /uploads/{filename}. The content type is always image/jpeg.
func (nc *NFTController) Image(c *ctx.Context) {
	rc, err := nc.catalog.OpenImage(c.Context(), c.Param("filename"))
	if errors.Is(err, services.ErrNotFound) {
		c.NotFound("Image not found")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	defer rc.Close()

	c.SetHeader("Content-Type", "image/jpeg")
	c.W.WriteHeader(http.StatusOK)
	if _, err := io.Copy(c.W, rc); err != nil {
		logger.WithCtx(c.Context()).Warn("image stream interrupted", "error", err)
	}
}

// picture opens the uploaded image, if any. The returned func closes it.
func (nc *NFTController) picture(c *ctx.Context) (io.Reader, func()) {
	f, _, err := bind.File(c.R, pictureField)
	if err != nil {
		return nil, func() {}
	}
	return f, func() { f.Close() }
}
