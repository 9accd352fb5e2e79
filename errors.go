/*
   Copyright 2021 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strips

import "errors"

// Sentinel errors for the four failure signals described by the planner's
// error handling design. Wrap these with fmt.Errorf's %w so callers can
// errors.Is against them while still getting contextual detail.
var (
	// ErrInvalidArgument is returned for role/bindings mismatches, condition
	// arity mismatches, missing required parameters, or a goal generator
	// called with no candidate conditions.
	ErrInvalidArgument = errors.New(`strips: invalid argument`)

	// ErrPreconditionsNotMet is returned by Apply when CheckPreconditions
	// fails. It is never raised by the planner itself.
	ErrPreconditionsNotMet = errors.New(`strips: preconditions not met`)

	// ErrPlanningDepthExceeded is returned by Select when the breadth-first
	// search exceeds its configured depth bound without finding a plan.
	ErrPlanningDepthExceeded = errors.New(`strips: planning depth exceeded`)

	// ErrImpossible signals a structural dead end: the bound tuple cannot
	// satisfy the condition under any reachable state. Callers within this
	// package fold it into "does not hold"; it must never propagate past
	// the planner's public entry points.
	ErrImpossible = errors.New(`strips: impossible`)
)
