package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// Errors returned by PartitionLate.
var (
	ErrDuplicateClaim = errors.New("late resource claimed by more than one core")
	ErrUnclaimed      = errors.New("late resource not claimed by any core")
	ErrNotLate        = errors.New("claimed name is not a late resource")
	ErrMultipleRest   = errors.New("more than one init routine omits its claim list")
)

// Claim is one core's statement about which late resources it initializes.
type Claim struct {
	Core core.Core
	// Names lists explicitly claimed late resources.
	Names []string
	// Rest marks a claim list that was omitted: the core takes every late
	// resource left unclaimed by the explicit claims.
	Rest bool
}

// ClaimsOf extracts the claims of every init routine of app. In a single-core
// build the sole init routine always claims the rest.
func ClaimsOf(app *core.App) []Claim {
	var claims []Claim
	for c := 0; c < app.Cores; c++ {
		boot, ok := app.Inits[core.Core(c)]
		if !ok {
			continue
		}
		claim := Claim{Core: boot.Core(), Names: boot.Claims, Rest: boot.ClaimsRest}
		if app.Cores == 1 {
			claim = Claim{Core: boot.Core(), Rest: true}
		}
		claims = append(claims, claim)
	}
	return claims
}

// PartitionLate assigns every late resource to exactly one core. Explicit
// claims are processed first; the single core with Rest set then takes
// whatever is left. Each returned list is sorted.
func PartitionLate(late []string, claims []Claim) (map[core.Core][]string, error) {
	unclaimed := make(map[string]bool, len(late))
	for _, name := range late {
		unclaimed[name] = true
	}
	owner := make(map[string]core.Core)
	out := make(map[core.Core][]string)

	var rest *Claim
	var errs []error
	for i := range claims {
		claim := claims[i]
		if claim.Rest {
			if rest != nil {
				errs = append(errs, fmt.Errorf("%w: cores %d and %d", ErrMultipleRest, rest.Core, claim.Core))
				continue
			}
			rest = &claims[i]
			continue
		}
		for _, name := range claim.Names {
			if prev, taken := owner[name]; taken {
				errs = append(errs, fmt.Errorf("%w: %s (cores %d and %d)", ErrDuplicateClaim, name, prev, claim.Core))
				continue
			}
			if !unclaimed[name] {
				errs = append(errs, fmt.Errorf("%w: %s (core %d)", ErrNotLate, name, claim.Core))
				continue
			}
			delete(unclaimed, name)
			owner[name] = claim.Core
			out[claim.Core] = append(out[claim.Core], name)
		}
	}

	if len(unclaimed) > 0 {
		leftovers := make([]string, 0, len(unclaimed))
		for name := range unclaimed {
			leftovers = append(leftovers, name)
		}
		sort.Strings(leftovers)
		if rest == nil {
			for _, name := range leftovers {
				errs = append(errs, fmt.Errorf("%w: %s", ErrUnclaimed, name))
			}
		} else {
			out[rest.Core] = append(out[rest.Core], leftovers...)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	for c := range out {
		sort.Strings(out[c])
	}
	return out, nil
}

func init() {
	register(PassDef{
		ID:          "late",
		Description: "Partition late resources across the cores' init routines",
		Run:         runLate,
	})
}

func runLate(st *accumulator) {
	late, err := PartitionLate(st.app.LateResources(), ClaimsOf(st.app))
	if err != nil {
		panic(fmt.Sprintf("analysis: invalid late resource claims: %v", err))
	}
	st.late = late
	st.logger.Debug("late resources partitioned", "cores", len(late))
}
