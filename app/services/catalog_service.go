package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/cache"
	"github.com/shashiranjanraj/nftlisting/pkg/event"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/rbac"
	"github.com/shashiranjanraj/nftlisting/pkg/storage"
	"github.com/shashiranjanraj/nftlisting/pkg/validate"
)

// NFTStore is the asset store.
type NFTStore interface {
	Create(ctx context.Context, nft *models.NFT) error
	All(ctx context.Context) ([]models.NFT, error)
	ByCreator(ctx context.Context, creator primitive.ObjectID) ([]models.NFT, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.NFT, error)
	Update(ctx context.Context, id primitive.ObjectID, changes models.NFTChanges) (*models.NFT, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.NFT, error)
}

// CatalogService owns NFT records and their images.
type CatalogService struct {
	nfts     NFTStore
	users    UserStore
	disk     storage.Disk
	policy   rbac.Policy
	cacheTTL time.Duration
}

// CatalogOption customises a CatalogService.
type CatalogOption func(*CatalogService)

// WithCacheTTL sets how long GetByID results stay cached.
func WithCacheTTL(ttl time.Duration) CatalogOption {
	return func(s *CatalogService) { s.cacheTTL = ttl }
}

func NewCatalogService(nfts NFTStore, users UserStore, disk storage.Disk, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		nfts:     nfts,
		users:    users,
		disk:     disk,
		policy:   rbac.DefaultPolicy(),
		cacheTTL: config.CacheTTL(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores the image and records a new NFT owned by identity.
func (s *CatalogService) Create(ctx context.Context, identity string, in models.NFTInput, image io.Reader) (*models.NFT, error) {
	fields := validate.Struct(in)
	if image == nil {
		fields["picture"] = "The picture field is required."
	}
	if err := invalid(fields); err != nil {
		return nil, err
	}

	creator, err := primitive.ObjectIDFromHex(identity)
	if err != nil {
		return nil, ErrUnauthorized
	}

	picture, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	nft := &models.NFT{
		ItemTitle:   in.ItemTitle,
		Description: in.Description,
		Price:       *in.Price,
		Royalties:   *in.Royalties,
		Picture:     picture,
		Creator:     creator,
	}
	if err := s.nfts.Create(ctx, nft); err != nil {
		s.discardImage(ctx, picture)
		return nil, fmt.Errorf("create nft: %w", err)
	}

	event.Fire(EventNFTCreated, NFTEvent{NFT: *nft, ActorID: identity})
	return nft, nil
}

// List returns every NFT.
func (s *CatalogService) List(ctx context.Context) ([]models.NFT, error) {
	nfts, err := s.nfts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nfts: %w", err)
	}
	return nonNil(nfts), nil
}

// ListMine returns the NFTs created by identity.
func (s *CatalogService) ListMine(ctx context.Context, identity string) ([]models.NFT, error) {
	creator, err := primitive.ObjectIDFromHex(identity)
	if err != nil {
		return []models.NFT{}, nil
	}
	nfts, err := s.nfts.ByCreator(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("list my nfts: %w", err)
	}
	return nonNil(nfts), nil
}

// Get returns one NFT. A malformed id is reported as ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.NFT, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var cached models.NFT
	if cache.Get(ctx, cacheKey(oid), &cached) {
		return &cached, nil
	}

	nft, err := s.load(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, cacheKey(oid), nft, s.cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("cache set failed", "nft_id", id, "error", err)
	}
	return nft, nil
}

// Update applies the non-empty changes and, when image is non-nil, replaces
// the picture. Only the creator may update.
func (s *CatalogService) Update(ctx context.Context, identity, id string, changes models.NFTChanges, image io.Reader) (*models.NFT, error) {
	current, err := s.Editable(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	oid := current.ID

	changes.Picture = ""
	if image != nil {
		if changes.Picture, err = s.storeImage(ctx, image); err != nil {
			return nil, err
		}
	}

	updated, err := s.nfts.Update(ctx, oid, changes)
	if err != nil {
		s.discardImage(ctx, changes.Picture)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update nft: %w", err)
	}
	s.forget(ctx, oid)

	ev := NFTEvent{NFT: *updated, ActorID: identity}
	if changes.Picture != "" && current.Picture != changes.Picture {
		ev.Replaced = current.Picture
	}
	event.Fire(EventNFTUpdated, ev)
	return updated, nil
}

// Editable returns the NFT when identity may update it: ErrNotFound when it
// does not exist, ErrPermissionDenied when the caller is not the creator.
func (s *CatalogService) Editable(ctx context.Context, identity, id string) (*models.NFT, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	current, err := s.load(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, identity, rbac.ActionUpdate, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes an NFT. The creator or an admin may delete.
func (s *CatalogService) Delete(ctx context.Context, identity, id string) (*models.NFT, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	current, err := s.load(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, identity, rbac.ActionDelete, current); err != nil {
		return nil, err
	}

	deleted, err := s.nfts.Delete(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete nft: %w", err)
	}
	s.forget(ctx, oid)

	event.Fire(EventNFTDeleted, NFTEvent{NFT: *deleted, ActorID: identity})
	return deleted, nil
}

// OpenImage streams a stored picture. Names with path separators are never
// resolved.
func (s *CatalogService) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, ErrNotFound
	}
	rc, err := s.disk.Open(ctx, name)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	return rc, nil
}

// PruneImage removes a superseded picture from the disk.
func (s *CatalogService) PruneImage(ctx context.Context, name string) error {
	return s.disk.Delete(ctx, name)
}

func (s *CatalogService) load(ctx context.Context, oid primitive.ObjectID) (*models.NFT, error) {
	nft, err := s.nfts.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load nft: %w", err)
	}
	return nft, nil
}

func (s *CatalogService) authorize(ctx context.Context, identity string, action rbac.Action, nft *models.NFT) error {
	sub, err := s.subject(ctx, identity)
	if err != nil {
		return err
	}
	if !s.policy.Allows(sub, action, nft.Creator.Hex()) {
		return ErrPermissionDenied
	}
	return nil
}

// subject loads the caller; a caller no longer in the store yields nil.
func (s *CatalogService) subject(ctx context.Context, identity string) (*rbac.Subject, error) {
	oid, err := primitive.ObjectIDFromHex(identity)
	if err != nil {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load caller: %w", err)
	}
	return &rbac.Subject{ID: user.ID.Hex(), Role: user.Role}, nil
}

func (s *CatalogService) storeImage(ctx context.Context, image io.Reader) (string, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.disk.Put(ctx, name, image); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return name, nil
}

func (s *CatalogService) discardImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.disk.Delete(context.WithoutCancel(ctx), name); err != nil {
		logger.WithCtx(ctx).Warn("discard image failed", "picture", name, "error", err)
	}
}

func (s *CatalogService) forget(ctx context.Context, oid primitive.ObjectID) {
	if err := cache.Forget(ctx, cacheKey(oid)); err != nil {
		logger.WithCtx(ctx).Warn("cache forget failed", "nft_id", oid.Hex(), "error", err)
	}
}

func cacheKey(oid primitive.ObjectID) string { return "nft:" + oid.Hex() }

func nonNil(nfts []models.NFT) []models.NFT {
	if nfts == nil {
		return []models.NFT{}
	}
	return nfts
}
