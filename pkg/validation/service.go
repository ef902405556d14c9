// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for identifiers that
// reach data-source lookups and log output.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// servicePattern matches valid service identifiers.
// Allows: lowercase letters, digits, hyphens (checkout-service),
// dots for namespaced services (payments.api). Must start with a
// letter. Max length: 63 characters (DNS label limit).
var servicePattern = regexp.MustCompile(`^[a-z][a-z0-9.\-]{0,62}$`)

// ValidateService validates a service identifier.
//
// Valid identifiers:
//   - 1-63 characters
//   - Lowercase letters a-z, digits 0-9
//   - Hyphens (-) and dots (.) as separators
//   - Must start with a letter
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateService(service); err != nil {
//	    return nil, fmt.Errorf("invalid service: %w", err)
//	}
func ValidateService(service string) error {
	if service == "" {
		return fmt.Errorf("service cannot be empty")
	}

	if !servicePattern.MatchString(service) {
		return fmt.Errorf("invalid service name: %q (must be 1-63 lowercase alphanumeric chars, dots, or hyphens, starting with a letter)", service)
	}

	return nil
}

// ValidateServices validates multiple service identifiers.
// Returns an error listing all invalid names if any fail validation.
func ValidateServices(services []string) error {
	var invalid []string
	for _, service := range services {
		if err := ValidateService(service); err != nil {
			invalid = append(invalid, service)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid service names: %s", strings.Join(invalid, ", "))
	}
	return nil
}
