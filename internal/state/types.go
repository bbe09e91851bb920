// Package state holds the canonical, mutable GameState and the entities
// nested inside it — the single value each registry entry owns and the
// tick pipeline exclusively mutates.
package state

import (
	"github.com/talgya/hexrealm/internal/staticdata"
	"github.com/talgya/hexrealm/internal/worldmap"
)

const (
	NeutralAnimal    = "neutral_animal"
	NeutralBarbarian = "neutral_barbarian"
)

type FogValue byte

const (
	FogUnexplored FogValue = 0
	FogExplored   FogValue = 1
	FogVisible    FogValue = 2
)

type UnitState string

const (
	UnitIdle      UnitState = "idle"
	UnitMoving    UnitState = "moving"
	UnitGathering UnitState = "gathering"
	UnitBuilding  UnitState = "building"
	UnitFighting  UnitState = "fighting"
	UnitReturning UnitState = "returning"
)

type DiplomacyStatus string

const (
	DiploPeace   DiplomacyStatus = "peace"
	DiploTension DiplomacyStatus = "tension"
	DiploWar     DiplomacyStatus = "war"
)

type ImprovementType string

const (
	ImprovementRoad ImprovementType = "road"
	ImprovementFarm ImprovementType = "farm_improvement"
	ImprovementMine ImprovementType = "mine"
)

const (
	CombatAggressive = "aggressive"
	CombatDefensive  = "defensive"
	CombatAvoidance  = "avoidance"
)

type Policies struct {
	Aggression   float64 // 0..100
	Expansion    float64 // 0..100
	Spending     float64 // 0..100
	CombatPolicy string  // aggressive | defensive | avoidance
}

type Advisor struct {
	Type    string // general | treasurer | priest | scholar | tribune
	Loyalty float64
}

var advisorTypes = [5]string{"general", "treasurer", "priest", "scholar", "tribune"}

type Player struct {
	UserID           string
	FactionID        string
	Resources        map[string]float64
	ResourceIncome   map[string]float64
	ResourceUpkeep   map[string]float64
	Policies         Policies
	Advisors         [5]Advisor
	ResearchedTechs  []string
	CurrentResearch  string
	ResearchProgress float64
	PassedLaws       []string
	Eliminated       bool
	FogMap           []FogValue
}

func (p *Player) Advisor(kind string) *Advisor {
	for i := range p.Advisors {
		if p.Advisors[i].Type == kind {
			return &p.Advisors[i]
		}
	}
	return nil
}

func newPlayer(userID, factionID string, w, h int) *Player {
	p := &Player{
		UserID:         userID,
		FactionID:      factionID,
		Resources:      map[string]float64{"food": 50, "production": 20, "gold": 30, "science": 0, "culture": 0},
		ResourceIncome: map[string]float64{},
		ResourceUpkeep: map[string]float64{},
		Policies:       Policies{Aggression: 50, Expansion: 50, Spending: 50, CombatPolicy: "defensive"},
		FogMap:         make([]FogValue, w*h),
	}
	for i, t := range advisorTypes {
		p.Advisors[i] = Advisor{Type: t, Loyalty: 50}
	}
	return p
}

type Settlement struct {
	ID            uint64
	OwnerID       string
	Name          string
	Tier          staticdata.SettlementTier
	Q, R          int
	Buildings     []string
	BuildingSlots int
	GatherRadius  int
	IsCapital     bool
	HP, MaxHP     float64
	Defense       float64
}

type Unit struct {
	ID          uint64
	Type        staticdata.UnitType
	OwnerID     string
	Q, R        int
	HP, MaxHP   float64
	Hunger      float64
	Safety      float64
	Strength    float64
	VisionRange int
	MoveSpeed   int
	State       UnitState
	HasTarget   bool
	TargetQ     int
	TargetR     int
}

func (u *Unit) Coord() worldmap.Coord { return worldmap.Coord{Q: u.Q, R: u.R} }

func (u *Unit) SetTarget(c worldmap.Coord) {
	u.HasTarget = true
	u.TargetQ, u.TargetR = c.Q, c.R
}

func (u *Unit) ClearTarget() {
	u.HasTarget = false
	u.TargetQ, u.TargetR = 0, 0
}

func (u *Unit) Target() worldmap.Coord { return worldmap.Coord{Q: u.TargetQ, R: u.TargetR} }

type DiplomacyState struct {
	PlayerA, PlayerB string
	Status           DiplomacyStatus
}

// GameEvent is the single event shape carried through the bus. Kind
// names the event (combatResult, settlementFounded, ...); Data holds
// the kind-specific payload as plain JSON-able values.
type GameEvent struct {
	Kind string
	Tick uint64
	Data map[string]any
}

func NewEvent(kind string, tick uint64, data map[string]any) GameEvent {
	return GameEvent{Kind: kind, Tick: tick, Data: data}
}

// GameState is the single authoritative value per game.
type GameState struct {
	GameID    string
	Tick      uint64
	Speed     float64
	Paused    bool
	MapWidth  int
	MapHeight int
	Terrain   []worldmap.Terrain
	Elevation []byte

	PlayerOrder []string
	Players     map[string]*Player

	Settlements map[uint64]*Settlement
	Units       map[uint64]*Unit

	NeutralUnits map[uint64]*Unit

	Improvements map[string]ImprovementType

	Diplomacy []DiplomacyState

	BarbarianCamps []worldmap.Coord

	nextSettlementID uint64
	nextUnitID       uint64
}

func (s *GameState) Map() *worldmap.Map {
	return &worldmap.Map{Width: s.MapWidth, Height: s.MapHeight, Terrain: s.Terrain, Elevation: s.Elevation}
}

func improvementKey(q, r int) string {
	return itoa(q) + "," + itoa(r)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (s *GameState) ImprovementAt(c worldmap.Coord) (ImprovementType, bool) {
	imp, ok := s.Improvements[improvementKey(c.Q, c.R)]
	return imp, ok
}

func (s *GameState) SetImprovement(c worldmap.Coord, t ImprovementType) {
	s.Improvements[improvementKey(c.Q, c.R)] = t
}

// AllUnits returns every owned and neutral unit in one flat slice, used
// by the combat system's pair enumeration.
func (s *GameState) AllUnits() []*Unit {
	out := make([]*Unit, 0, len(s.Units)+len(s.NeutralUnits))
	for _, u := range s.Units {
		out = append(out, u)
	}
	for _, u := range s.NeutralUnits {
		out = append(out, u)
	}
	return out
}

// NextSettlementID allocates the next settlement id for this game.
func (s *GameState) NextSettlementID() uint64 {
	s.nextSettlementID++
	return s.nextSettlementID
}

// NextUnitID allocates the next unit id for this game.
func (s *GameState) NextUnitID() uint64 {
	s.nextUnitID++
	return s.nextUnitID
}

// DiplomacyBetween looks up the entry between two human players, if any.
func (s *GameState) DiplomacyBetween(a, b string) (*DiplomacyState, bool) {
	for i := range s.Diplomacy {
		d := &s.Diplomacy[i]
		if (d.PlayerA == a && d.PlayerB == b) || (d.PlayerA == b && d.PlayerB == a) {
			return d, true
		}
	}
	return nil, false
}

// IsHostile reports whether units owned by a and b should fight, per the
// rule in §4.E.2/§4.E.4: a neutral owner is always hostile; between two
// human owners, hostility requires an explicit "war" diplomacy entry.
func (s *GameState) IsHostile(ownerA, ownerB string) bool {
	if ownerA == ownerB {
		return false
	}
	_, aIsPlayer := s.Players[ownerA]
	_, bIsPlayer := s.Players[ownerB]
	if !aIsPlayer || !bIsPlayer {
		return true
	}
	d, ok := s.DiplomacyBetween(ownerA, ownerB)
	return ok && d.Status == DiploWar
}
