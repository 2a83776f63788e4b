package services

import "github.com/shashiranjanraj/nftlisting/app/models"

// Event names fired after a successful state change.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventNFTCreated     = "nft.created"
	EventNFTUpdated     = "nft.updated"
	EventNFTDeleted     = "nft.deleted"
)

// NFTEvent is the payload of the nft.* events. Replaced is the picture an
// update superseded, if any.
type NFTEvent struct {
	NFT      models.NFT
	ActorID  string
	Replaced string
}
