package ctrlcv

import (
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// RuleKind selects how a [TransformRule] locates the text it replaces.
type RuleKind int

const (
	// KindLiteral matches pattern byte-for-byte (internally compiled as an
	// escaped regex, so it still runs through the same substitution path).
	KindLiteral RuleKind = iota
	// KindRegex matches pattern as a PCRE-style regular expression.
	KindRegex
	// KindStructural delegates match location to a caller-supplied
	// [StructuralQuery] — typically backed by an external incremental
	// parser wired through [BufferedReader.ParserSource].
	KindStructural
)

// StructuralQuery locates the byte ranges a [KindStructural] rule should
// replace. This package never binds to a specific parser implementation;
// callers implement StructuralQuery on top of whatever parser they've
// wired via [BufferedReader.ParserSource].
type StructuralQuery interface {
	Ranges(content []byte) ([]Range, error)
}

// TransformRule describes one substitution to apply to a [SnapshotWriter].
type TransformRule struct {
	// Name identifies the rule in [TransformChange] records and error
	// messages. Optional, but recommended once a RuleSet has more than one
	// rule.
	Name string
	Kind RuleKind
	// Pattern is the literal text or regex to match. Unused for
	// KindStructural.
	Pattern string
	// Template is the replacement text. For KindRegex and KindLiteral it
	// may reference capture groups (e.g. "$1"). For KindStructural this
	// text is written verbatim at each range's Start via
	// [SnapshotWriter.WriteAt], overwriting len(Template) bytes; the range's
	// End is not used.
	Template string
	// Nth selects a single occurrence to replace (negative counts from
	// the end, per [SnapshotWriter.Replace]). Nil means replace every
	// occurrence. Unused for KindStructural, which replaces every range
	// its Query returns.
	Nth *int
	// Query locates the ranges to replace for KindStructural rules.
	Query StructuralQuery
}

// TransformChange records what a [RuleSet] changed. A literal or regex rule
// yields one record per rule, with Before and After holding the whole
// buffer before and after that rule ran and Range left zero. A structural
// rule yields one record per range it wrote, with Range set to that range,
// Before holding the whole buffer before the rule ran, and After holding
// the template written there.
type TransformChange struct {
	Rule   string
	Range  Range
	Before string
	After  string
}

// RuleSet is an ordered list of [TransformRule]s applied as a batch.
type RuleSet struct {
	Rules []TransformRule
}

// Apply runs every rule against w in order, in place, and returns the
// accumulated change log. A rule that fails (bad pattern, a nil Query for
// a structural rule, or a [SnapshotWriter] write error) is recorded in the
// returned error via [multierror.Append] and does not block later rules
// from running — RuleSet favors applying as much of the batch as possible
// over failing fast.
func (rs RuleSet) Apply(w *SnapshotWriter) ([]TransformChange, error) {
	var changes []TransformChange
	var errs *multierror.Error

	for _, rule := range rs.Rules {
		before := string(w.content)

		switch rule.Kind {
		case KindLiteral, KindRegex:
			changes, errs = rs.applyPatternRule(w, rule, before, changes, errs)
		case KindStructural:
			changes, errs = rs.applyStructuralRule(w, rule, before, changes, errs)
		default:
			errs = multierror.Append(errs, errors.Errorf("rule %q: unknown kind %d", rule.Name, rule.Kind))
		}
	}

	w.diff = append(w.diff, changes...)
	return changes, errs.ErrorOrNil()
}

func (rs RuleSet) applyPatternRule(
	w *SnapshotWriter, rule TransformRule, before string,
	changes []TransformChange, errs *multierror.Error,
) ([]TransformChange, *multierror.Error) {
	pattern := rule.Pattern
	if rule.Kind == KindLiteral {
		pattern = regexp.QuoteMeta(pattern)
	}

	if rule.Nth == nil {
		w.ReplaceAll(pattern, rule.Template)
	} else {
		w.Replace(pattern, rule.Template, *rule.Nth)
	}

	if err := w.err; err != nil {
		errs = multierror.Append(errs, errors.Wrapf(err, "rule %q", rule.Name))
		w.err = nil // one rule's failure shouldn't poison the rest of the batch
		return changes, errs
	}

	changes = append(changes, TransformChange{
		Rule:   rule.Name,
		Before: before,
		After:  string(w.content),
	})
	return changes, errs
}

func (rs RuleSet) applyStructuralRule(
	w *SnapshotWriter, rule TransformRule, before string,
	changes []TransformChange, errs *multierror.Error,
) ([]TransformChange, *multierror.Error) {
	if rule.Query == nil {
		errs = multierror.Append(errs, errors.Errorf("rule %q: structural rule has no Query", rule.Name))
		return changes, errs
	}

	ranges, err := rule.Query.Ranges(w.content)
	if err != nil {
		errs = multierror.Append(errs, errors.Wrapf(err, "rule %q", rule.Name))
		return changes, errs
	}

	for _, rg := range ranges {
		w.WriteAt(rg.Start, []byte(rule.Template))
		if err := w.err; err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "rule %q", rule.Name))
			w.err = nil
			continue
		}
		changes = append(changes, TransformChange{
			Rule:   rule.Name,
			Range:  rg,
			Before: before,
			After:  rule.Template,
		})
	}
	return changes, errs
}
