package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const keyPrefix = "go-cms-authoring"

// Deterministic hashes the non-empty parts into a stable UUID. Parts are
// joined under a package prefix, so the same parts always yield the same id
// and different part lists do not collide by concatenation.
func Deterministic(parts ...string) uuid.UUID {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, keyPrefix)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, strconv.Quote(part))
		}
	}
	if len(segments) == 1 {
		return uuid.Nil
	}
	key := strings.Join(segments, ":")
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return id
}

// JournalEntryUUID identifies the sequence-th journal entry of a session.
func JournalEntryUUID(sessionID uuid.UUID, sequence int) uuid.UUID {
	return Deterministic("journal", sessionID.String(), strconv.Itoa(sequence))
}
