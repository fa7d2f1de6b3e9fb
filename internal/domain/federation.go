package domain

// FederationID is the fixed identity of the federation singleton. Its stream
// id equals its id: there is exactly one federation aggregate.
const FederationID = "FFHB"

// PlayerLicense binds a license number to a player.
type PlayerLicense struct {
	PlayerID      string
	LicenseNumber string
	LicenseType   LicenseType
}

// Federation is the singleton aggregate enforcing license-number uniqueness
// across all players.
type Federation struct {
	AggregateRoot

	licenses map[string]PlayerLicense
}

// NewFederation returns an empty federation ready to be loaded from history.
func NewFederation() *Federation {
	f := &Federation{licenses: make(map[string]PlayerLicense)}
	f.Init(f.apply)
	return f
}

// ID returns the fixed federation id.
func (f *Federation) ID() string { return FederationID }

// StreamID returns the fixed federation stream id.
func (f *Federation) StreamID() string { return FederationID }

// License returns the registration for a license number, if any.
func (f *Federation) License(licenseNumber string) (PlayerLicense, bool) {
	l, ok := f.licenses[licenseNumber]
	return l, ok
}

// RegisterPlayerLicense binds a license number to a player. A license number
// maps to at most one player; re-registering the same license to the same
// player is a no-op.
func (f *Federation) RegisterPlayerLicense(playerID, licenseNumber string, licenseType LicenseType, actorID string) error {
	if existing, ok := f.licenses[licenseNumber]; ok {
		if existing.PlayerID == playerID {
			return nil
		}
		return NewInvalidOperation("license %s already registered to player %s", licenseNumber, existing.PlayerID)
	}
	f.ApplyChange(PlayerLicenseRegistered{
		BaseEvent:     NewBaseEvent(actorID),
		PlayerID:      playerID,
		LicenseNumber: licenseNumber,
		LicenseType:   licenseType,
	})
	return nil
}

func (f *Federation) apply(event Event) {
	if e, ok := event.(PlayerLicenseRegistered); ok {
		f.licenses[e.LicenseNumber] = PlayerLicense{
			PlayerID:      e.PlayerID,
			LicenseNumber: e.LicenseNumber,
			LicenseType:   e.LicenseType,
		}
	}
}
