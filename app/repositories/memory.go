package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/nftlisting/app/models"
)

// MemoryUserRepository keeps users in process memory (DB_DRIVER=memory).
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Create enforces email uniqueness the way the unique index does.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, *user)
	return nil
}

// MemoryNFTRepository keeps NFTs in process memory in insertion order.
type MemoryNFTRepository struct {
	mu   sync.RWMutex
	nfts []models.NFT
}

func NewMemoryNFTRepository() *MemoryNFTRepository {
	return &MemoryNFTRepository{}
}

func (r *MemoryNFTRepository) Create(_ context.Context, nft *models.NFT) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nft.ID.IsZero() {
		nft.ID = primitive.NewObjectID()
	}
	r.nfts = append(r.nfts, *nft)
	return nil
}

func (r *MemoryNFTRepository) All(_ context.Context) ([]models.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.NFT{}, r.nfts...), nil
}

func (r *MemoryNFTRepository) ByCreator(_ context.Context, creator primitive.ObjectID) ([]models.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.NFT{}
	for _, n := range r.nfts {
		if n.Creator == creator {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *MemoryNFTRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.NFT, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		n := r.nfts[i]
		return &n, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryNFTRepository) Update(_ context.Context, id primitive.ObjectID, changes models.NFTChanges) (*models.NFT, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	changes.ApplyTo(&r.nfts[i])
	n := r.nfts[i]
	return &n, nil
}

func (r *MemoryNFTRepository) Delete(_ context.Context, id primitive.ObjectID) (*models.NFT, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	n := r.nfts[i]
	r.nfts = append(r.nfts[:i], r.nfts[i+1:]...)
	return &n, nil
}

func (r *MemoryNFTRepository) index(id primitive.ObjectID) int {
	for i, n := range r.nfts {
		if n.ID == id {
			return i
		}
	}
	return -1
}
