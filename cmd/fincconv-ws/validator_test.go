package main

import (
	"testing"
)

func TestStringValidator(t *testing.T) {
	v := stringValidator{}

	v.requireValue("8080", "service port")

	if v.Invalid() == true {
		t.Fatalf("Expected a present value to validate")
	}

	v.requireValue("", "service port")

	if v.Invalid() == false {
		t.Fatalf("Expected a missing value to invalidate")
	}

	// validation remains invalid once tripped
	v.requireValue("8080", "service port")

	if v.Invalid() == false {
		t.Fatalf("Expected invalid state to stick")
	}
}
