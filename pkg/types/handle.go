package types

import (
	"fmt"
	"sort"
)

// Anchor is a canonical alignment point identifier as understood by the
// remote alignment primitive.
type Anchor string

// Canonical anchors. AnchorUnset marks a handle whose anchor was not chosen yet.
const (
	AnchorUnset        Anchor = ""
	AnchorUpperLeft    Anchor = "upperLeft"
	AnchorUpperCenter  Anchor = "upperCenter"
	AnchorUpperRight   Anchor = "upperRight"
	AnchorCenterLeft   Anchor = "centerLeft"
	AnchorCenterCenter Anchor = "centerCenter"
	AnchorCenterRight  Anchor = "centerRight"
	AnchorLowerLeft    Anchor = "lowerLeft"
	AnchorLowerCenter  Anchor = "lowerCenter"
	AnchorLowerRight   Anchor = "lowerRight"
)

// Anchors lists every canonical anchor.
var Anchors = []Anchor{
	AnchorUpperLeft, AnchorUpperCenter, AnchorUpperRight,
	AnchorCenterLeft, AnchorCenterCenter, AnchorCenterRight,
	AnchorLowerLeft, AnchorLowerCenter, AnchorLowerRight,
}

type anchorPart int

const (
	partNone anchorPart = iota
	partLeft
	partRight
	partUpper
	partLower
	partCenter
)

type anchorParts struct {
	vertical   anchorPart
	horizontal anchorPart
}

var anchorLayout = map[Anchor]anchorParts{
	AnchorUpperLeft:    {partUpper, partLeft},
	AnchorUpperCenter:  {partUpper, partCenter},
	AnchorUpperRight:   {partUpper, partRight},
	AnchorCenterLeft:   {partCenter, partLeft},
	AnchorCenterCenter: {partCenter, partCenter},
	AnchorCenterRight:  {partCenter, partRight},
	AnchorLowerLeft:    {partLower, partLeft},
	AnchorLowerCenter:  {partLower, partCenter},
	AnchorLowerRight:   {partLower, partRight},
}

// Valid reports whether a is one of the canonical anchors.
func (a Anchor) Valid() bool {
	_, ok := anchorLayout[a]
	return ok
}

// IsSet reports whether an anchor has been chosen.
func (a Anchor) IsSet() bool {
	return a != AnchorUnset
}

func (a Anchor) vertical() anchorPart   { return anchorLayout[a].vertical }
func (a Anchor) horizontal() anchorPart { return anchorLayout[a].horizontal }

// Symbolic name parts. The vertical synonyms map onto the remote prefix.
var (
	handleVertical = []struct{ name, remote string }{
		{"top", "upper"},
		{"upper", "upper"},
		{"bottom", "lower"},
		{"lower", "lower"},
		{"center", "center"},
	}
	handleHorizontal = []struct{ name, remote string }{
		{"left", "Left"},
		{"center", "Center"},
		{"right", "Right"},
	}
)

// handleTable maps every accepted symbolic name to its anchor.
// Built once; never mutated afterwards.
var handleTable = buildHandleTable()

func buildHandleTable() map[string]Anchor {
	table := make(map[string]Anchor)
	for _, v := range handleVertical {
		for _, h := range handleHorizontal {
			table[v.name+"_"+h.name] = Anchor(v.remote + h.remote)
		}
		// Vertical-only names sit on the horizontal center.
		table[v.name] = Anchor(v.remote + "Center")
	}
	for _, h := range handleHorizontal {
		if h.name == "center" {
			continue
		}
		table[h.name] = Anchor("center" + h.remote)
	}
	return table
}

// ResolveHandle maps a symbolic anchor name such as "upper_left", "top" or
// "right" to its canonical anchor.
// Returns ErrUnknownHandle when name is not recognized. Matching is exact.
func ResolveHandle(name string) (Anchor, error) {
	a, ok := handleTable[name]
	if !ok {
		return AnchorUnset, fmt.Errorf("%w: %q", ErrUnknownHandle, name)
	}
	return a, nil
}

// HandleNames returns every accepted symbolic name in sorted order.
func HandleNames() []string {
	names := make([]string, 0, len(handleTable))
	for name := range handleTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
