package workflow

import (
	"errors"
	"fmt"
	"strings"

	"resale-backend/internal/domain/application"
)

// ErrUnknownApplicationType marks an application whose type matches no known
// ladder. The caller still gets a usable variant (standard) back.
var ErrUnknownApplicationType = errors.New("unknown application type")

// Variant selects which workflow ladder applies to an application. It is
// resolved once per snapshot and threaded through the resolvers rather than
// re-derived from status strings at each step.
type Variant int

const (
	VariantStandard Variant = iota
	VariantSettlement
	VariantMultiCommunity
)

func (v Variant) String() string {
	switch v {
	case VariantSettlement:
		return "settlement"
	case VariantMultiCommunity:
		return "multi_community"
	default:
		return "standard"
	}
}

// ResolveVariant picks exactly one ladder for the snapshot.
//
// A multi-community application with one or zero property groups is
// deliberately not multi-community for display purposes and falls back to
// the standard ladder. An unrecognized application type also resolves to
// the standard ladder, with ErrUnknownApplicationType reported so callers
// can surface the classification problem without failing the render.
func ResolveVariant(s Snapshot) (Variant, error) {
	multi := s.IsMultiCommunity || s.ApplicationType == application.TypeMultiCommunity
	if multi && len(s.Groups) > 1 {
		return VariantMultiCommunity, nil
	}
	if s.SubmitterType == application.SubmitterSettlement ||
		strings.HasPrefix(string(s.ApplicationType), "settlement") {
		return VariantSettlement, nil
	}
	if !s.ApplicationType.Known() {
		return VariantStandard, fmt.Errorf("%w: %q", ErrUnknownApplicationType, s.ApplicationType)
	}
	return VariantStandard, nil
}
