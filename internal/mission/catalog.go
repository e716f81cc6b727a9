// Package mission holds the ordered table of missions a player progresses through.
package mission

import (
	"errors"
	"fmt"
)

// Level bounds. Level 10 is the last mission and the progression ceiling.
const (
	MinLevel = 1
	MaxLevel = 10
)

// ErrOutOfRange is returned when a level outside [MinLevel, MaxLevel] is requested.
var ErrOutOfRange = errors.New("mission level out of range")

// ErrInvalidCatalog is returned when a catalog breaks the table invariants.
var ErrInvalidCatalog = errors.New("invalid mission catalog")

// Mission is one catalog entry.
type Mission struct {
	Level       int    `yaml:"level"`
	Name        string `yaml:"name"`
	EnemyCount  int    `yaml:"enemies"`
	Description string `yaml:"description"`
}

// Final reports whether this is the last mission of the campaign.
func (m Mission) Final() bool {
	return m.Level == MaxLevel
}

// Catalog is an immutable, validated table of missions keyed by level.
type Catalog struct {
	missions [MaxLevel]Mission
}

// maxEnemies caps the enemy population of any mission. It stays below the
// 30-round magazine so every mission can be cleared.
const maxEnemies = 25

// defaultMissions is the stock campaign: 5 enemies on level 1, two more per level.
var defaultMissions = []Mission{
	{Level: 1, Name: "Boot Camp", Description: "Clear the training range."},
	{Level: 2, Name: "Outpost", Description: "Retake the border outpost."},
	{Level: 3, Name: "Supply Line", Description: "Secure the convoy route."},
	{Level: 4, Name: "Night Raid", Description: "Hit the camp before dawn."},
	{Level: 5, Name: "River Crossing", Description: "Hold the bridge."},
	{Level: 6, Name: "Urban Sweep", Description: "Clear the district block by block."},
	{Level: 7, Name: "Airfield", Description: "Take the runway intact."},
	{Level: 8, Name: "Fortress", Description: "Breach the walls."},
	{Level: 9, Name: "Command Post", Description: "Decapitate enemy command."},
	{Level: 10, Name: "Final Battle", Description: "Shells are exploding all around! Destroy every enemy!"},
}

func init() {
	for i := range defaultMissions {
		defaultMissions[i].EnemyCount = min(5+(defaultMissions[i].Level-1)*2, maxEnemies)
	}
}

// Default returns the stock campaign catalog.
func Default() *Catalog {
	c, err := New(defaultMissions)
	if err != nil {
		panic(err)
	}
	return c
}

// New validates missions and builds a catalog from them. The input may be in any order.
func New(missions []Mission) (*Catalog, error) {
	if len(missions) != MaxLevel {
		return nil, fmt.Errorf("%w: want %d missions, got %d", ErrInvalidCatalog, MaxLevel, len(missions))
	}

	c := &Catalog{}
	var seen [MaxLevel]bool
	for _, m := range missions {
		if m.Level < MinLevel || m.Level > MaxLevel {
			return nil, fmt.Errorf("%w: level %d", ErrInvalidCatalog, m.Level)
		}
		if seen[m.Level-1] {
			return nil, fmt.Errorf("%w: duplicate level %d", ErrInvalidCatalog, m.Level)
		}
		if m.EnemyCount < 1 {
			return nil, fmt.Errorf("%w: level %d has no enemies", ErrInvalidCatalog, m.Level)
		}
		if m.EnemyCount > maxEnemies {
			return nil, fmt.Errorf("%w: level %d has %d enemies, at most %d allowed",
				ErrInvalidCatalog, m.Level, m.EnemyCount, maxEnemies)
		}
		seen[m.Level-1] = true
		c.missions[m.Level-1] = m
	}

	for i := 1; i < MaxLevel; i++ {
		if c.missions[i].EnemyCount < c.missions[i-1].EnemyCount {
			return nil, fmt.Errorf("%w: level %d has fewer enemies than level %d",
				ErrInvalidCatalog, i+1, i)
		}
	}
	return c, nil
}

// MissionFor returns the mission for the given level.
func (c *Catalog) MissionFor(level int) (Mission, error) {
	if level < MinLevel || level > MaxLevel {
		return Mission{}, fmt.Errorf("%w: %d", ErrOutOfRange, level)
	}
	return c.missions[level-1], nil
}

// All returns the missions in level order.
func (c *Catalog) All() []Mission {
	out := make([]Mission, MaxLevel)
	copy(out, c.missions[:])
	return out
}

// ValidLevel reports whether level is within the campaign bounds.
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}
