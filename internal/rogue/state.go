// Package rogue holds the run-scoped state and static catalogs for the
// Rogue gamemode: resource balance, difficulty modifiers, the shop economy,
// scoring, and the stage target pools.
package rogue

const (
	// StartingBalance is the click balance a fresh run begins with.
	StartingBalance = 18
	// RevivalBalance is the balance restored by a consumed Second Chance.
	RevivalBalance = 10
)

// StageRecord captures one completed stage for the run summary.
type StageRecord struct {
	StageNumber  int    `json:"stageNumber"`
	StartPage    string `json:"startPage"`
	TargetPage   string `json:"targetPage"`
	ClicksUsed   int    `json:"clicksUsed"`
	UnusedClicks int    `json:"unusedClicks"`
	Score        int    `json:"score"`
	Modifiers    int    `json:"modifiers"`
}

// State is the mutable Rogue run state, independent from the shared
// GameState and reset at run start.
type State struct {
	CurrentStage          int
	ClickBalance          int
	TotalScore            int
	WikiPoints            int
	ActiveModifiers       []Modifier
	OwnedItems            []Item
	PermanentUpgrades     []Item
	VisitedPages          []string
	StageHistory          []StageRecord
	ClicksAtStageStart    int
	UnusedClicksThisStage int
	FreeRerolls           int
}

// NewState returns a freshly reset run state.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset returns every field to its initial run value.
func (s *State) Reset() {
	s.CurrentStage = 1
	s.ClickBalance = StartingBalance
	s.TotalScore = 0
	s.WikiPoints = 0
	s.ActiveModifiers = nil
	s.OwnedItems = nil
	s.PermanentUpgrades = nil
	s.VisitedPages = nil
	s.StageHistory = nil
	s.ClicksAtStageStart = StartingBalance
	s.UnusedClicksThisStage = 0
	s.FreeRerolls = 0
}

// AddModifier activates a modifier for the current stage.
func (s *State) AddModifier(m Modifier) {
	s.ActiveModifiers = append(s.ActiveModifiers, m)
}

// ClearModifiers removes all active modifiers, called on stage advance.
func (s *State) ClearModifiers() {
	s.ActiveModifiers = nil
}

// RemoveLastModifier pops the most recently added active modifier.
// It reports whether there was one to remove.
func (s *State) RemoveLastModifier() (Modifier, bool) {
	if len(s.ActiveModifiers) == 0 {
		return Modifier{}, false
	}
	last := s.ActiveModifiers[len(s.ActiveModifiers)-1]
	s.ActiveModifiers = s.ActiveModifiers[:len(s.ActiveModifiers)-1]
	return last, true
}

// AddItem routes an item into the permanent or consumable collection.
func (s *State) AddItem(it Item) {
	if it.Permanent {
		s.PermanentUpgrades = append(s.PermanentUpgrades, it)
	} else {
		s.OwnedItems = append(s.OwnedItems, it)
	}
}

// RemoveItem removes one consumable item by id. Permanent upgrades are
// never removed.
func (s *State) RemoveItem(id string) {
	for i, it := range s.OwnedItems {
		if it.ID == id {
			s.OwnedItems = append(s.OwnedItems[:i], s.OwnedItems[i+1:]...)
			return
		}
	}
}

// HasItem reports whether the item is owned, in either collection.
func (s *State) HasItem(id string) bool {
	for _, it := range s.OwnedItems {
		if it.ID == id {
			return true
		}
	}
	return s.HasUpgrade(id)
}

// HasUpgrade reports whether a permanent upgrade is owned.
func (s *State) HasUpgrade(id string) bool {
	for _, it := range s.PermanentUpgrades {
		if it.ID == id {
			return true
		}
	}
	return false
}

// AddVisitedPage records a page visit with set semantics.
func (s *State) AddVisitedPage(title string) {
	for _, p := range s.VisitedPages {
		if p == title {
			return
		}
	}
	s.VisitedPages = append(s.VisitedPages, title)
}

// HasVisited reports whether the page was visited during the current stage.
func (s *State) HasVisited(title string) bool {
	for _, p := range s.VisitedPages {
		if p == title {
			return true
		}
	}
	return false
}

// ClearVisitedPages empties the visited set, called on stage advance.
func (s *State) ClearVisitedPages() {
	s.VisitedPages = nil
}
