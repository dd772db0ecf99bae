// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package executor

import (
	"fmt"
	"strings"
)

// The two-phase creation policy shared by task, project, client, and
// booking creation: refuse outright when a mandatory field is missing,
// otherwise create immediately with defaults and, when the user supplied
// no optional details, offer to fill them in as a follow-up.

type twoPhase struct {
	entity             string   // "task", "project", "client", "booking"
	missingMandatory   []string // human-readable names of absent mandatory fields
	hasOptionalDetails bool
	optionalFields     []string // names offered in the enhancement question
}

// run executes the policy. create performs the actual mutation and
// returns a short label for the result message. create is only invoked
// when every mandatory field is present; nothing is partially created.
func (e *Executor) runTwoPhase(tp twoPhase, create func() (label string, err error)) (Result, error) {
	if len(tp.missingMandatory) > 0 {
		return Result{
			Success:       false,
			MissingFields: tp.missingMandatory,
			Message: fmt.Sprintf("I need a bit more to create this %s. Please provide: %s.",
				tp.entity, strings.Join(tp.missingMandatory, ", ")),
		}, nil
	}

	label, err := create()
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("Created %s: %s", tp.entity, label)
	if !tp.hasOptionalDetails && len(tp.optionalFields) > 0 {
		msg += fmt.Sprintf(". Would you like to add %s?", joinOffer(tp.optionalFields))
	}
	return Result{Success: true, Message: msg}, nil
}

func joinOffer(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return "a " + fields[0]
	default:
		return "a " + strings.Join(fields[:len(fields)-1], ", ") + ", or " + fields[len(fields)-1]
	}
}
