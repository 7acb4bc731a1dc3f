// ABOUTME: Profile singleton operations on the ledger
// ABOUTME: Partial updates merge; deleting the profile resets the whole ledger
package ledger

import (
	"fmt"

	"github.com/harper/fuel-ledger/internal/bus"
	"github.com/harper/fuel-ledger/internal/models"
	"github.com/harper/fuel-ledger/internal/storage"
)

// Profile returns the stored profile; ok is false when none has been saved
func (l *Ledger) Profile() (p *models.Profile, ok bool) {
	return storage.ReadObject[models.Profile](l.store, BucketProfile)
}

// SaveProfile replaces the stored profile
func (l *Ledger) SaveProfile(p models.Profile) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p.UpdatedAt = l.now()
	if err := storage.WriteObject(l.store, BucketProfile, &p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// UpdateProfile merges patch into the stored profile (creating one if
// needed) and returns the result with the keys that were applied. Nothing
// is written when no key applies.
func (l *Ledger) UpdateProfile(patch map[string]interface{}) (models.Profile, []string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var p models.Profile
	stored, ok, err := storage.LoadObject[models.Profile](l.store, BucketProfile)
	if err != nil {
		return p, nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if ok {
		p = *stored
	}

	applied := p.Merge(patch)
	if len(applied) == 0 {
		return p, nil, nil
	}
	p.UpdatedAt = l.now()
	if err := storage.WriteObject(l.store, BucketProfile, &p); err != nil {
		return p, nil, fmt.Errorf("failed to update profile: %w", err)
	}
	l.log.Debug("profile updated", "keys", applied)
	return p, applied, nil
}

// DeleteProfile removes the profile and every other bucket with it
func (l *Ledger) DeleteProfile() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetLocked()
}

// ProfileFromChange returns the profile carried by c, re-reading storage
// when the change has no usable payload
func ProfileFromChange(l *Ledger, c bus.Change) (*models.Profile, bool) {
	if len(c.Value) > 0 {
		if p, ok := storage.DecodeObject[models.Profile](c.Value); ok {
			return p, true
		}
	}
	return l.Profile()
}
