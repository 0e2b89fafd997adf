package filter

import (
	"strings"
	"testing"

	"github.com/ubleipzig/fincconv/internal/extract"
	"github.com/ubleipzig/fincconv/internal/vocab"
)

func jsonSource(t *testing.T, body string) extract.FieldSource {
	t.Helper()

	src, err := extract.ParseJSONSource([]byte(body))
	if err != nil {
		t.Fatalf("parse: %s", err.Error())
	}

	return src
}

func TestRequiredField(t *testing.T) {
	rule := RequiredField{Spec: "title"}

	d := rule.Check(jsonSource(t, `{"title": "Foo"}`))
	if d.Admit == false {
		t.Fatalf("Expected admit, got refusal: %s", d.Reason)
	}

	if got := d.Values["title"]; got != "Foo" {
		t.Fatalf("Expected bound value [Foo], got [%s]", got)
	}

	d = rule.Check(jsonSource(t, `{"title": ""}`))
	if d.Admit == true {
		t.Fatalf("Expected refusal for empty field")
	}

	d = rule.Check(jsonSource(t, `{}`))
	if d.Admit == true {
		t.Fatalf("Expected refusal for absent field")
	}
}

func TestForbiddenValue(t *testing.T) {
	rule := ForbiddenValue{Spec: "rights", Value: "restricted"}

	if d := rule.Check(jsonSource(t, `{"rights": "open"}`)); d.Admit == false {
		t.Fatalf("Expected admit, got refusal: %s", d.Reason)
	}

	if d := rule.Check(jsonSource(t, `{"rights": ["open", "restricted"]}`)); d.Admit == true {
		t.Fatalf("Expected refusal for excluded value")
	}

	if d := rule.Check(jsonSource(t, `{}`)); d.Admit == false {
		t.Fatalf("Expected admit for absent field")
	}
}

func TestClassificationMember(t *testing.T) {
	list, err := vocab.ReadClassificationList(strings.NewReader("^QA75\n^QA76\n"))
	if err != nil {
		t.Fatalf("read: %s", err.Error())
	}

	rule := ClassificationMember{Spec: "callnumber", List: list}

	d := rule.Check(jsonSource(t, `{"callnumber": "QA76.73.P98"}`))
	if d.Admit == false {
		t.Fatalf("Expected admit, got refusal: %s", d.Reason)
	}

	if got := d.Values["pattern"]; got != "^QA76" {
		t.Fatalf("Expected bound pattern [^QA76], got [%s]", got)
	}

	if d := rule.Check(jsonSource(t, `{"callnumber": "HF5001"}`)); d.Admit == true {
		t.Fatalf("Expected refusal for non-member call number")
	}

	if d := rule.Check(jsonSource(t, `{}`)); d.Admit == true {
		t.Fatalf("Expected refusal for missing call number")
	}
}

func TestChainMergesValuesAndStopsEarly(t *testing.T) {
	list, err := vocab.ReadClassificationList(strings.NewReader("^QA\n"))
	if err != nil {
		t.Fatalf("read: %s", err.Error())
	}

	chain := Chain{
		RequiredField{Spec: "url"},
		ClassificationMember{Spec: "callnumber", List: list},
	}

	d := chain.Check(jsonSource(t, `{"url": "https://example.org/x", "callnumber": "QA1"}`))
	if d.Admit == false {
		t.Fatalf("Expected admit, got refusal: %s", d.Reason)
	}

	if d.Values["url"] == "" || d.Values["pattern"] == "" {
		t.Fatalf("Expected merged bound values, got %v", d.Values)
	}

	d = chain.Check(jsonSource(t, `{"callnumber": "QA1"}`))
	if d.Admit == true || strings.Contains(d.Reason, "url") == false {
		t.Fatalf("Expected first refusal to win, got %+v", d)
	}
}
