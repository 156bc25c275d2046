// Package catalog resolves free-form service names into duration and price.
//
// A name is a base service optionally followed by the add-ons " + Vousy"
// and/or " + Mytí vlasů", e.g. "Klasický střih + Vousy + Mytí vlasů".
// The same resolver is used when validating a booking and when rendering
// notification emails, so both always agree.
package catalog

import "strings"

// Base services
const (
	Fade           = "Fade"
	ClassicCut     = "Klasický střih"
	KidsFade       = "Dětský fade"
	KidsClassicCut = "Dětský klasický střih"
	Beard          = "Vousy"
	Wash           = "Mytí vlasů"
	FullPackage    = "Kompletka"
)

// Add-on markers, matched as substrings of the full name
const (
	BeardAddon = "+ Vousy"
	WashAddon  = "+ Mytí vlasů"
)

const (
	// DefaultDurationMinutes used when no base service prefix matches
	DefaultDurationMinutes = 30
	// FadeWithBeardMinutes fixed duration of Fade with the beard add-on
	FadeWithBeardMinutes = 65
)

// Service entry of the base price list
type Service struct {
	Name            string
	DurationMinutes int
	Price           int // CZK
	AcceptsAddons   bool
}

var baseServices = []Service{
	{Name: Fade, DurationMinutes: 45, Price: 450, AcceptsAddons: true},
	{Name: ClassicCut, DurationMinutes: 30, Price: 350, AcceptsAddons: true},
	{Name: KidsFade, DurationMinutes: 45, Price: 350, AcceptsAddons: true},
	{Name: KidsClassicCut, DurationMinutes: 30, Price: 300, AcceptsAddons: true},
	{Name: Beard, DurationMinutes: 15, Price: 200, AcceptsAddons: true},
	{Name: Wash, DurationMinutes: 10, Price: 100, AcceptsAddons: true},
	{Name: FullPackage, DurationMinutes: 70, Price: 700, AcceptsAddons: false},
}

// legacyServices compound names stored by older clients; never decomposed
var legacyServices = map[string]Service{
	"Střih + vousy": {Name: "Střih + vousy", DurationMinutes: 45, Price: 550},
	"Fade + vousy":  {Name: "Fade + vousy", DurationMinutes: FadeWithBeardMinutes, Price: 650},
}

// Quote resolved duration and price of a service name
type Quote struct {
	Name            string
	Base            string // matched base service, empty when unknown
	HasBeard        bool
	HasWash         bool
	DurationMinutes int
	Price           int
	Known           bool
}

// Services base price list
func Services() []Service {
	out := make([]Service, len(baseServices))
	copy(out, baseServices)
	return out
}

// Lookup base service by exact name
func Lookup(name string) (Service, bool) {
	for _, s := range baseServices {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// Duration minutes the named service occupies the chair
func Duration(name string) int {
	return Resolve(name).DurationMinutes
}

// Price total price in CZK, 0 for an unknown base
func Price(name string) int {
	return Resolve(name).Price
}

// IsKnown reports whether the name resolves to a legacy or base service
func IsKnown(name string) bool {
	return Resolve(name).Known
}

// Resolve applies the naming grammar
func Resolve(name string) Quote {
	name = strings.TrimSpace(name)

	if legacy, ok := legacyServices[name]; ok {
		return Quote{
			Name:            name,
			Base:            legacy.Name,
			DurationMinutes: legacy.DurationMinutes,
			Price:           legacy.Price,
			Known:           true,
		}
	}

	q := Quote{
		Name:     name,
		HasBeard: strings.Contains(name, BeardAddon),
		HasWash:  strings.Contains(name, WashAddon),
	}

	base, ok := longestPrefix(name)
	if !ok {
		q.DurationMinutes = DefaultDurationMinutes
		q.DurationMinutes += addonMinutes(q, "")
		return q
	}
	q.Base = base.Name
	q.Known = true

	if !base.AcceptsAddons {
		q.DurationMinutes = base.DurationMinutes
		q.Price = base.Price
		return q
	}

	q.Price = base.Price + addonPrice(q, base.Name)

	if base.Name == Fade && q.HasBeard {
		q.DurationMinutes = FadeWithBeardMinutes
		if q.HasWash {
			q.DurationMinutes += mustLookup(Wash).DurationMinutes
		}
		return q
	}

	q.DurationMinutes = base.DurationMinutes + addonMinutes(q, base.Name)
	return q
}

func longestPrefix(name string) (Service, bool) {
	var (
		best  Service
		found bool
	)
	for _, s := range baseServices {
		if strings.HasPrefix(name, s.Name) && len(s.Name) > len(best.Name) {
			best = s
			found = true
		}
	}
	return best, found
}

func addonMinutes(q Quote, base string) int {
	total := 0
	if q.HasBeard && base != Beard {
		total += mustLookup(Beard).DurationMinutes
	}
	if q.HasWash && base != Wash {
		total += mustLookup(Wash).DurationMinutes
	}
	return total
}

func addonPrice(q Quote, base string) int {
	total := 0
	if q.HasBeard && base != Beard {
		total += mustLookup(Beard).Price
	}
	if q.HasWash && base != Wash {
		total += mustLookup(Wash).Price
	}
	return total
}

func mustLookup(name string) Service {
	s, ok := Lookup(name)
	if !ok {
		panic("catalog: missing base service " + name)
	}
	return s
}
