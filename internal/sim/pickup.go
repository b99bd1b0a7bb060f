package sim

import "time"

// PickupKind is the effect granted when a player tank drives over a pickup.
type PickupKind int

const (
	PickupShield     PickupKind = iota // temporary invulnerability
	PickupExtraLife                    // one more life (shared pool in co-op)
	PickupRapidFire                    // shorter reload for a while
	PickupFreeze                       // all enemies stop for a while
	pickupKindCount                    // sentinel
)

func (k PickupKind) String() string {
	switch k {
	case PickupShield:
		return "shield"
	case PickupExtraLife:
		return "life"
	case PickupRapidFire:
		return "rapid"
	case PickupFreeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// Pickup is a bonus lying on the field until collected or expired.
type Pickup struct {
	Kind   PickupKind
	Box    Rect
	TTL    time.Duration
	Active bool
}

// Tick ages the pickup and retires it when its time runs out.
func (p *Pickup) Tick(dt time.Duration) {
	if !p.Active {
		return
	}
	p.TTL -= dt
	if p.TTL <= 0 {
		p.Active = false
	}
}
