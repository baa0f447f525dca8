package models

import "time"

// Club is a read-only view of a stored club.
type Club struct {
	ID        string
	Name      string
	LogoKey   string // object-storage key of the club crest, empty when none
	CreatedAt time.Time
}

// Player is a read-only view of a stored player.
type Player struct {
	ID          string
	DisplayName string
	AvatarKey   string // object-storage key of the avatar photo, empty when none
	CreatedAt   time.Time
}
