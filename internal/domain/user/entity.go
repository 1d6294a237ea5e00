// Package user contains the read-mostly user profile this engine
// consumes: allergens, cuisine preferences and tag preferences.
// Account management and authentication live elsewhere.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TagStrength grades how strongly a user feels about a preference tag
type TagStrength string

const (
	StrengthLike  TagStrength = "like"
	StrengthLove  TagStrength = "love"
	StrengthAvoid TagStrength = "avoid"
)

// TagPreference pairs a recipe tag with the user's attitude towards it
type TagPreference struct {
	Tag      string
	Strength TagStrength
}

// User is the profile the planning and fulfillment flows read. Fields
// beyond identity are constraint inputs, never mutated here.
type User struct {
	id                  uuid.UUID
	name                string
	allergenIngredients []string
	likedCuisines       []string
	dislikedCuisines    []string
	tagPreferences      []TagPreference
	createdAt           time.Time
}

// New creates a user profile with validation
func New(id uuid.UUID, name string, allergens, likedCuisines, dislikedCuisines []string, tags []TagPreference, createdAt time.Time) (*User, error) {
	if id == uuid.Nil {
		return nil, ErrMissingID
	}
	return &User{
		id:                  id,
		name:                name,
		allergenIngredients: allergens,
		likedCuisines:       normalizeAll(likedCuisines),
		dislikedCuisines:    normalizeAll(dislikedCuisines),
		tagPreferences:      tags,
		createdAt:           createdAt,
	}, nil
}

// ID returns the user's unique identifier
func (u *User) ID() uuid.UUID {
	return u.id
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// CreatedAt returns when the profile was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// AllergenIngredientIDs returns the ingredient ids the user must avoid
func (u *User) AllergenIngredientIDs() []string {
	return u.allergenIngredients
}

// AllergenSet returns the allergen ids as a lookup set
func (u *User) AllergenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(u.allergenIngredients))
	for _, id := range u.allergenIngredients {
		set[id] = struct{}{}
	}
	return set
}

// IsAllergicTo reports whether the ingredient id is in the allergen set
func (u *User) IsAllergicTo(ingredientID string) bool {
	for _, id := range u.allergenIngredients {
		if id == ingredientID {
			return true
		}
	}
	return false
}

// LikedCuisines returns the cuisines the user favors
func (u *User) LikedCuisines() []string {
	return u.likedCuisines
}

// DislikedCuisines returns the cuisines the user avoids
func (u *User) DislikedCuisines() []string {
	return u.dislikedCuisines
}

// LikesCuisine reports whether the cuisine is among the liked ones
func (u *User) LikesCuisine(cuisine string) bool {
	return contains(u.likedCuisines, normalize(cuisine))
}

// DislikesCuisine reports whether the cuisine is among the disliked ones
func (u *User) DislikesCuisine(cuisine string) bool {
	return contains(u.dislikedCuisines, normalize(cuisine))
}

// TagPreferences returns the user's tag preferences
func (u *User) TagPreferences() []TagPreference {
	return u.tagPreferences
}

// TagStrengthFor returns the user's attitude towards a tag, if any
func (u *User) TagStrengthFor(tag string) (TagStrength, bool) {
	t := normalize(tag)
	for _, p := range u.tagPreferences {
		if normalize(p.Tag) == t {
			return p.Strength, true
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
