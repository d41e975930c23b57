package utils

import (
	"fmt"
	"hash/fnv"
)

// Dicebear avatar sets for freshly created accounts. Cosmetic only; the
// selection is deterministic per email so repeated signup attempts against
// the same address render the same avatar.
var (
	avatarCollections = []string{
		"adventurer-neutral", "big-smile", "bottts", "croodles",
		"fun-emoji", "icons", "identicon", "lorelei", "micah", "thumbs",
	}
	avatarSeeds = []string{
		"Garfield", "Tinkerbell", "Annie", "Loki", "Cleo", "Angel",
		"Bob", "Mia", "Coco", "Gracie", "Bear", "Bella", "Abby",
		"Harley", "Cali", "Leo", "Luna", "Jack", "Felix", "Kiki",
	}
)

// DefaultAvatarURL derives an avatar URL for a new account from its email.
func DefaultAvatarURL(email string) string {
	h := fnv.New32a()
	h.Write([]byte(email))
	sum := h.Sum32()
	collection := avatarCollections[sum%uint32(len(avatarCollections))]
	seed := avatarSeeds[(sum>>8)%uint32(len(avatarSeeds))]
	return fmt.Sprintf("https://api.dicebear.com/6.x/%s/svg?seed=%s", collection, seed)
}
