package jar

import (
	"fmt"
	"regexp"
)

// Action identifies what to do when several entries compete for one
// destination path.
type Action uint8

const (
	// ActionSkip keeps the original (earliest scheduled) entry.
	ActionSkip Action = iota

	// ActionReplace keeps the latest scheduled entry.
	ActionReplace

	// ActionConcat appends each later entry's content to the original.
	ActionConcat

	// ActionFail aborts the write with a DuplicateEntryError.
	ActionFail
)

// String returns the human-readable name of an action.
func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionReplace:
		return "replace"
	case ActionConcat:
		return "concat"
	case ActionFail:
		return "fail"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAction parses an action from its string representation.
func ParseAction(name string) (Action, error) {
	switch name {
	case "skip":
		return ActionSkip, nil
	case "replace":
		return ActionReplace, nil
	case "concat":
		return ActionConcat, nil
	case "fail":
		return ActionFail, nil
	default:
		return 0, fmt.Errorf("unknown duplicate action: %q", name)
	}
}

// DuplicatePolicy pairs a path selector with the action applied to duplicate
// entries whose destination path it matches.
type DuplicatePolicy struct {
	selector *regexp.Regexp
	action   Action
}

// PathMatches creates a policy for destination paths matching expr. The
// expression is unanchored: it applies wherever it finds a match within the
// path.
func PathMatches(expr string, action Action) (DuplicatePolicy, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return DuplicatePolicy{}, fmt.Errorf("policy pattern %q: %w", expr, err)
	}
	return DuplicatePolicy{selector: re, action: action}, nil
}

// Matches reports whether this policy has jurisdiction over jarPath.
func (p DuplicatePolicy) Matches(jarPath string) bool {
	return p.selector != nil && p.selector.MatchString(jarPath)
}

// Action returns the action applied to entries under this policy's
// jurisdiction.
func (p DuplicatePolicy) Action() Action { return p.action }

// DuplicateHandler selects an action for a duplicated destination path: the
// first matching policy wins, otherwise the default action applies.
type DuplicateHandler struct {
	defaultAction Action
	policies      []DuplicatePolicy
}

// NewDuplicateHandler creates a handler that applies the first matching policy
// in preference order, falling back to defaultAction.
func NewDuplicateHandler(defaultAction Action, policies ...DuplicatePolicy) DuplicateHandler {
	return DuplicateHandler{defaultAction: defaultAction, policies: policies}
}

// Always creates a handler that applies action to every duplicated path.
func Always(action Action) DuplicateHandler {
	return DuplicateHandler{defaultAction: action}
}

// SkipDuplicatesConcatServices creates a handler that concatenates service
// registration metadata (META-INF/services/ files, which are mergeable line
// lists) and skips every other duplicate.
func SkipDuplicatesConcatServices() DuplicateHandler {
	concatServices := DuplicatePolicy{
		selector: regexp.MustCompile("^META-INF/services/"),
		action:   ActionConcat,
	}
	return NewDuplicateHandler(ActionSkip, concatServices)
}

func (h DuplicateHandler) actionFor(jarPath string) Action {
	for _, policy := range h.policies {
		if policy.Matches(jarPath) {
			return policy.Action()
		}
	}
	return h.defaultAction
}
