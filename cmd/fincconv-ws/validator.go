package main

import "log"

// stringValidator collects missing-value complaints during config
// validation so all of them are logged before the service exits.
type stringValidator struct {
	invalid bool
}

func (v *stringValidator) requireValue(value string, label string) {
	if value == "" {
		log.Printf("[VALIDATE] missing %s", label)
		v.invalid = true
	}
}

func (v *stringValidator) Invalid() bool {
	return v.invalid
}
