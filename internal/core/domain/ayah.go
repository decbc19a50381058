package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ayah is a verse-level audio/text record under review.
// Every field except ID is replaced wholesale on each re-fetch.
type Ayah struct {
	// ID is the immutable identifier, "<surah>_<ayah>".
	ID string `json:"id"`

	// CombinedURL points to the unsplit Arabic+English clip.
	CombinedURL *string `json:"combined_url"`

	// ArabicURL points to the Arabic half after a split.
	ArabicURL *string `json:"arabic_url"`

	// EnglishURL points to the English half after a split.
	EnglishURL *string `json:"english_url"`

	// SourceTranslation is the reference English text.
	SourceTranslation *string `json:"source_translation"`

	// EnglishTranscription is what the recogniser heard in the English half.
	EnglishTranscription *string `json:"english_transcription"`

	// Matches is nil until the item has been split at least once.
	Matches *bool `json:"matches"`

	// WER is the word error rate of the transcription against the source.
	WER *float64 `json:"wer"`

	// ForcedApproved is set when an operator accepted a mismatch.
	ForcedApproved *bool `json:"forced_approved"`
}

// Action is an operator action offered for an ayah row.
type Action string

const (
	// ActionAutoSplit asks the backend to pick the split point itself.
	ActionAutoSplit Action = "auto_split"
	// ActionEdit opens the split-point modal.
	ActionEdit Action = "edit"
	// ActionApprove force-accepts a non-matching item.
	ActionApprove Action = "approve"
)

// Label returns the button label shown for the action.
func (a Action) Label() string {
	switch a {
	case ActionAutoSplit:
		return "Auto-Split"
	case ActionEdit:
		return "Edit"
	case ActionApprove:
		return "Approve"
	default:
		return string(a)
	}
}

// Status summarises an ayah's review state for display.
type Status string

const (
	StatusPending  Status = "pending"
	StatusMatched  Status = "matched"
	StatusApproved Status = "approved"
	StatusMismatch Status = "mismatch"
)

// ParseAyahID splits an identifier into its surah and ayah numbers.
// Leading zeros are accepted ("002_005" is surah 2, ayah 5). A bare
// number names the surah's title clip and parses as ayah 0.
func ParseAyahID(id string) (surah, ayah int, err error) {
	left, right, ok := strings.Cut(id, "_")
	if !ok {
		right = "0"
	}
	surah, err = strconv.Atoi(left)
	if err != nil || surah < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAyahID, id)
	}
	ayah, err = strconv.Atoi(right)
	if err != nil || ayah < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAyahID, id)
	}
	return surah, ayah, nil
}

// Surah returns the surah number encoded in the identifier.
func (a *Ayah) Surah() (int, error) {
	s, _, err := ParseAyahID(a.ID)
	return s, err
}

// Number returns the ayah number within its surah.
func (a *Ayah) Number() (int, error) {
	_, n, err := ParseAyahID(a.ID)
	return n, err
}

// Actions returns the row actions offered for the ayah.
// An unsplit item only offers Auto-Split, a mismatch offers Edit and
// Approve, and a match offers nothing.
func (a *Ayah) Actions() []Action {
	if a.Matches == nil {
		return []Action{ActionAutoSplit}
	}
	if !*a.Matches {
		return []Action{ActionEdit, ActionApprove}
	}
	return []Action{}
}

// HasAction reports whether action is offered for the ayah.
func (a *Ayah) HasAction(action Action) bool {
	for _, candidate := range a.Actions() {
		if candidate == action {
			return true
		}
	}
	return false
}

// Status returns the review state of the ayah.
func (a *Ayah) Status() Status {
	switch {
	case a.Matches == nil:
		return StatusPending
	case *a.Matches:
		return StatusMatched
	case a.ForcedApproved != nil && *a.ForcedApproved:
		return StatusApproved
	default:
		return StatusMismatch
	}
}

// Track identifies one of an ayah's media files.
type Track string

const (
	TrackCombined Track = "combined"
	TrackArabic   Track = "arabic"
	TrackEnglish  Track = "english"
)

// MediaURL returns the raw URL for a track, or "" when absent.
func (a *Ayah) MediaURL(track Track) string {
	var u *string
	switch track {
	case TrackCombined:
		u = a.CombinedURL
	case TrackArabic:
		u = a.ArabicURL
	case TrackEnglish:
		u = a.EnglishURL
	}
	if u == nil {
		return ""
	}
	return *u
}

// SurahNumbers returns the sorted, de-duplicated surah numbers present
// in items. Items whose identifier cannot be parsed are skipped.
func SurahNumbers(items []Ayah) []int {
	seen := make(map[int]struct{})
	for i := range items {
		s, err := items[i].Surah()
		if err != nil {
			continue
		}
		seen[s] = struct{}{}
	}

	surahs := make([]int, 0, len(seen))
	for s := range seen {
		surahs = append(surahs, s)
	}
	sort.Ints(surahs)
	return surahs
}

// FilterBySurah returns the items belonging to surah, ordered by ayah number.
func FilterBySurah(items []Ayah, surah int) []Ayah {
	filtered := make([]Ayah, 0)
	for i := range items {
		s, err := items[i].Surah()
		if err != nil || s != surah {
			continue
		}
		filtered = append(filtered, items[i])
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ni, _ := filtered[i].Number()
		nj, _ := filtered[j].Number()
		return ni < nj
	})
	return filtered
}

// FindAyah returns the item with the given identifier.
func FindAyah(items []Ayah, id string) (*Ayah, bool) {
	for i := range items {
		if items[i].ID == id {
			return &items[i], true
		}
	}
	return nil, false
}

// SurahSelection tracks the surah the operator is viewing.
// Once the collection is non-empty it holds the smallest surah present,
// unless the operator has already chosen one.
type SurahSelection struct {
	selected int
	set      bool
}

// Reconcile applies the default selection rule against the surahs
// currently present.
func (s *SurahSelection) Reconcile(surahs []int) {
	if s.set || len(surahs) == 0 {
		return
	}
	s.selected = surahs[0]
	s.set = true
}

// Select records an operator choice.
func (s *SurahSelection) Select(surah int) {
	s.selected = surah
	s.set = true
}

// Selected returns the selected surah and whether one is set.
func (s *SurahSelection) Selected() (int, bool) {
	return s.selected, s.set
}

// Step moves the selection by delta positions within surahs, clamping at
// either end. It is a no-op when nothing is selected.
func (s *SurahSelection) Step(surahs []int, delta int) {
	if !s.set || len(surahs) == 0 {
		return
	}
	idx := sort.SearchInts(surahs, s.selected)
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(surahs) {
		idx = len(surahs) - 1
	}
	s.selected = surahs[idx]
}
