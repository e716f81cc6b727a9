// Package account stores player records and authenticates players.
package account

import (
	"slices"
	"time"

	"github.com/tomz197/warzone/internal/mission"
)

// StarterWeapon is the only weapon a freshly registered player carries.
const StarterWeapon = "Pistol"

// Player is the persisted record of one player.
type Player struct {
	Identity         string    `json:"identity"`
	Email            string    `json:"email,omitempty"`
	CredentialSecret string    `json:"credentialSecret"`
	Level            int       `json:"level"`
	Loadout          []string  `json:"loadout"`
	Allies           []string  `json:"allies"`
	Admin            bool      `json:"admin,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasWeapon reports whether weapon is in the player's loadout.
func (p Player) HasWeapon(weapon string) bool {
	_, found := slices.BinarySearch(p.Loadout, weapon)
	return found
}

// HasAlly reports whether identity is one of the player's allies.
func (p Player) HasAlly(identity string) bool {
	_, found := slices.BinarySearch(p.Allies, identity)
	return found
}

// Clone returns a deep copy of p.
func (p Player) Clone() Player {
	p.Loadout = slices.Clone(p.Loadout)
	p.Allies = slices.Clone(p.Allies)
	return p
}

// normalize sorts and deduplicates the set fields and clamps the level into range.
func (p Player) normalize() Player {
	p = p.Clone()
	p.Loadout = normalizeSet(p.Loadout)
	p.Allies = normalizeSet(p.Allies)
	if p.Level < mission.MinLevel {
		p.Level = mission.MinLevel
	}
	if p.Level > mission.MaxLevel {
		p.Level = mission.MaxLevel
	}
	return p
}

func normalizeSet(s []string) []string {
	if s == nil {
		return []string{}
	}
	slices.Sort(s)
	return slices.Compact(s)
}

// addToSet inserts v into the sorted set s. Returns false if v was already present.
func addToSet(s []string, v string) ([]string, bool) {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s, false
	}
	return slices.Insert(s, i, v), true
}

// removeFromSet deletes v from the sorted set s. Returns false if v was absent.
func removeFromSet(s []string, v string) ([]string, bool) {
	i, found := slices.BinarySearch(s, v)
	if !found {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
