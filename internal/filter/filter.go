// Package filter implements record admission rules. Converters run a
// rule chain before field mapping; a refusal skips the record without
// failing the run.
package filter

import (
	"fmt"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/vocab"
)

// Decision is one rule's verdict. Values carries data the rule had to
// look at anyway (the required field's value, the matched classification
// pattern), so the mapping step need not extract it again.
type Decision struct {
	Admit  bool
	Reason string
	Values map[string]string
}

func admit(values map[string]string) Decision {
	return Decision{Admit: true, Values: values}
}

func refuse(format string, args ...interface{}) Decision {
	return Decision{Admit: false, Reason: fmt.Sprintf(format, args...)}
}

// Rule checks one admission condition against a record source.
type Rule interface {
	Check(src extract.FieldSource) Decision
}

// RequiredField refuses records where the field is absent or empty.
type RequiredField struct {
	Spec string
}

func (r RequiredField) Check(src extract.FieldSource) Decision {
	value := src.First(r.Spec)

	if value == "" {
		return refuse("missing required field %s", r.Spec)
	}

	return admit(map[string]string{r.Spec: value})
}

// ForbiddenValue refuses records whose field carries a blacklisted
// value, e.g. a restricted access rights marker.
type ForbiddenValue struct {
	Spec  string
	Value string
}

func (r ForbiddenValue) Check(src extract.FieldSource) Decision {
	for _, value := range src.All(r.Spec) {
		if value == r.Value {
			return refuse("field %s has excluded value [%s]", r.Spec, r.Value)
		}
	}

	return admit(nil)
}

// ClassificationMember refuses records whose call number matches no
// pattern of the allow-list. The matched pattern is bound under
// "pattern", the checked call number under the field spec.
type ClassificationMember struct {
	Spec string
	List *vocab.ClassificationList
}

func (r ClassificationMember) Check(src extract.FieldSource) Decision {
	callNumber := src.First(r.Spec)

	if callNumber == "" {
		return refuse("missing call number %s", r.Spec)
	}

	pattern := r.List.FirstMatch(callNumber)
	if pattern == "" {
		return refuse("call number [%s] not in allow-list", callNumber)
	}

	return admit(map[string]string{r.Spec: callNumber, "pattern": pattern})
}

// Chain runs rules in order and refuses on the first refusal. Bound
// values of all passed rules are merged.
type Chain []Rule

func (c Chain) Check(src extract.FieldSource) Decision {
	merged := make(map[string]string)

	for _, rule := range c {
		decision := rule.Check(src)

		if decision.Admit == false {
			return decision
		}

		for key, value := range decision.Values {
			merged[key] = value
		}
	}

	return admit(merged)
}
