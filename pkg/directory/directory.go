// Package directory generates the deterministic set of synthetic member
// profiles that message generation draws senders from, and simulates
// presence churn over them.
package directory

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"chatsim/pkg/logger"
	"chatsim/pkg/models"
	"chatsim/pkg/seedrand"
)

// seedNames is the fixed vocabulary for the first profiles. Indices beyond
// it synthesize "Member {i}" names.
var seedNames = []string{
	"Marcus Devlin",
	"Lena Okafor",
	"Tobias Reinhart",
	"Priya Nair",
	"Jonas Lindqvist",
	"Camila Reyes",
	"Derek Hollis",
	"Yuki Tanaka",
	"Omar Haddad",
	"Ingrid Svensson",
	"Felix Baumann",
	"Aisha Bello",
	"Nikolai Petrov",
	"Sofia Marchetti",
	"Ethan Caldwell",
	"Mei-Ling Chou",
	"Rafael Duarte",
	"Hannah Kessler",
	"Viktor Andersen",
	"Zara Qureshi",
	"Liam O'Donnell",
	"Nadia Kowalczyk",
	"Sebastian Krüger",
	"Talia Ben-Ami",
}

// Seed-vocabulary slots with a forced role.
const (
	adminIndex = 0
	modIndex   = 1
)

// modPromoteFraction is the seeded chance that an ordinary member is
// promoted to MOD.
const modPromoteFraction = 0.009

// lastActiveWindow is the span over which initial last-active timestamps
// are distributed.
const lastActiveWindow = 48 * time.Hour

// Presence classification thresholds.
const (
	onlineWithin = 90 * time.Second
	idleWithin   = 300 * time.Second
)

// recentActivityWindow bounds how far in the past a presence step places a
// member's last activity.
const recentActivityWindow = 5 * time.Minute

// Directory holds the generated profiles. LastActive is the only mutable
// field; SimulatePresenceStep and CountByPresence guard it with the
// directory mutex.
type Directory struct {
	mu     sync.Mutex
	people []*models.Person
	seed   uint32
}

// Generate builds a directory of size profiles from the seed, with
// last-active timestamps anchored at the current time.
func Generate(size int, seed uint32) *Directory {
	return GenerateAt(size, seed, time.Now())
}

// GenerateAt is Generate with an explicit reference time, for reproducible
// directories. Person i's fields are fully determined by (i, seed, now).
func GenerateAt(size int, seed uint32, now time.Time) *Directory {
	if size < 0 {
		size = 0
	}
	d := &Directory{seed: seed, people: make([]*models.Person, 0, size)}
	nowMS := now.UnixMilli()
	window := lastActiveWindow.Milliseconds()
	for i := 0; i < size; i++ {
		rnd := seedrand.New(seed + uint32(i)*7349)
		name := fmt.Sprintf("Member %d", i+1)
		if i < len(seedNames) {
			name = seedNames[i]
		}
		role := models.RoleVerified
		switch i {
		case adminIndex:
			role = models.RoleAdmin
		case modIndex:
			role = models.RoleMod
		default:
			if rnd.Float64() < modPromoteFraction {
				role = models.RoleMod
			}
		}
		d.people = append(d.people, &models.Person{
			ID:          fmt.Sprintf("usr_%d", i+1),
			Name:        name,
			DisplayName: name,
			Role:        role,
			Avatar:      fmt.Sprintf("avatar_%02d", rnd.Intn(32)),
			LastActive:  nowMS - int64(rnd.Float64()*float64(window)),
		})
	}
	return d
}

// Len returns the number of profiles.
func (d *Directory) Len() int { return len(d.people) }

// Person returns the profile at index i, or nil when out of range.
func (d *Directory) Person(i int) *models.Person {
	if i < 0 || i >= len(d.people) {
		return nil
	}
	return d.people[i]
}

// IdentitySnapshot returns copies of the profiles with the mutable
// last-active field zeroed. Generation paths must use it instead of the
// live profiles: a sender reference carries identity only, never presence
// state, so generated messages stay byte-identical across presence churn.
func (d *Directory) IdentitySnapshot() []models.Person {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Person, len(d.people))
	for i, p := range d.people {
		out[i] = *p
		out[i].LastActive = 0
	}
	return out
}

// Names returns the display names of all profiles.
func (d *Directory) Names() []string {
	out := make([]string, len(d.people))
	for i, p := range d.people {
		out[i] = p.DisplayName
	}
	return out
}

// SimulatePresenceStep marks a random subset of round(total*percent)
// members as active within the last five minutes and returns how many were
// touched. The subset is intentionally unseeded: presence models live
// "current" behavior, not reproducible history.
func (d *Directory) SimulatePresenceStep(percent float64) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	n := int(float64(len(d.people))*percent + 0.5)
	if n == 0 {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now().UnixMilli()
	window := recentActivityWindow.Milliseconds()
	for _, i := range rand.Perm(len(d.people))[:n] {
		d.people[i].LastActive = now - rand.Int63n(window)
	}
	logger.Debug("presence_step", "touched", n, "total", len(d.people))
	return n
}

// PresenceClassify maps elapsed time since the person's last activity to a
// presence bucket. Any presence-count computation must go through it.
func PresenceClassify(p *models.Person, now time.Time) string {
	elapsed := now.UnixMilli() - p.LastActive
	switch {
	case elapsed < onlineWithin.Milliseconds():
		return models.PresenceOnline
	case elapsed < idleWithin.Milliseconds():
		return models.PresenceIdle
	default:
		return models.PresenceOffline
	}
}

// CountByPresence returns the number of members in each presence bucket at
// the given time.
func (d *Directory) CountByPresence(now time.Time) map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := map[string]int{
		models.PresenceOnline:  0,
		models.PresenceIdle:    0,
		models.PresenceOffline: 0,
	}
	for _, p := range d.people {
		out[PresenceClassify(p, now)]++
	}
	return out
}
