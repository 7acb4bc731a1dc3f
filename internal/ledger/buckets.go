// ABOUTME: Bucket names and record kinds that make up the ledger's storage format
// ABOUTME: Bucket names are stable across releases and shared with every surface
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Bucket names as stored by the backend
const (
	BucketFood          = "foodEntries"
	BucketWorkouts      = "workouts"
	BucketWater         = "waterIntake"
	BucketWeight        = "weightEntries"
	BucketProfile       = "userProfile"
	BucketConversations = "conversations"
)

// Buckets lists every bucket the ledger owns
var Buckets = []string{
	BucketFood,
	BucketWorkouts,
	BucketWater,
	BucketWeight,
	BucketProfile,
	BucketConversations,
}

// Sentinel errors for caller mistakes
var (
	ErrUnknownKind          = errors.New("unknown record kind")
	ErrInvalidDay           = errors.New("invalid day")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Kind names a removable record type
type Kind string

const (
	KindFood    Kind = "food"
	KindWorkout Kind = "workout"
	KindWater   Kind = "water"
	KindWeight  Kind = "weight"
)

// Kinds lists every record kind
var Kinds = []Kind{KindFood, KindWorkout, KindWater, KindWeight}

// Bucket returns the bucket holding records of kind k
func (k Kind) Bucket() (string, error) {
	switch k {
	case KindFood:
		return BucketFood, nil
	case KindWorkout:
		return BucketWorkouts, nil
	case KindWater:
		return BucketWater, nil
	case KindWeight:
		return BucketWeight, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// ParseKind accepts a kind name or its plural
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if _, err := k.Bucket(); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// validBucket reports whether name is one of Buckets
func validBucket(name string) bool {
	for _, b := range Buckets {
		if b == name {
			return true
		}
	}
	return false
}
