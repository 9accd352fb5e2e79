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

import (
	"fmt"
	"math/rand"
	"time"
)

// Goal is a bound condition instance plus a target truth value and a
// human-readable name.
type Goal struct {
	Name      string
	Condition Condition
	Value     bool
}

// IsSatisfied evaluates the goal's condition against the live world and
// returns whether it equals the target value. An evaluation error
// (including ErrImpossible) counts as not satisfied.
func (g Goal) IsSatisfied() bool {
	value, err := g.Condition.Evaluate()
	return err == nil && value == g.Value
}

// GenerateGoal randomly selects one of the given bound conditions and
// returns a Goal whose target value is the negation of that condition's
// current evaluation. If a selected condition's current evaluation raises
// ErrImpossible, another is retried; GenerateGoal gives up and returns
// ErrInvalidArgument if every candidate is impossible.
//
// Per spec §6/§9, this takes an explicit candidate list rather than
// discovering attributes via reflection/dir() over the objects (the
// original source's generate_goal): the spec calls that the "cleaner
// variant" and the one to adopt.
func GenerateGoal(conditions []Condition, rng *rand.Rand) (Goal, error) {
	if len(conditions) == 0 {
		return Goal{}, fmt.Errorf(`strips: generate goal: no candidate conditions: %w`, ErrInvalidArgument)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	order := rng.Perm(len(conditions))
	for _, i := range order {
		cond := conditions[i]
		value, err := cond.Evaluate()
		if err != nil {
			continue
		}
		return Goal{
			Name:      fmt.Sprintf(`%s == %v`, cond, !value),
			Condition: cond,
			Value:     !value,
		}, nil
	}
	return Goal{}, fmt.Errorf(`strips: generate goal: all candidates impossible: %w`, ErrInvalidArgument)
}
