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

// GroundAction is one entry of a CandidatePlan's action suffix: the actor,
// the action class, and its role bindings.
type GroundAction struct {
	Actor   Entity
	Action  *ActionSpec
	Binding Binding
}

// CandidatePlan is a partial solution in the backward search: the set of
// ground propositions required to hold immediately before its action
// suffix runs, paired with that suffix. See spec §3/§4.3.
//
// conditions maps each required ground proposition's key to its required
// value; bound retains the actual Condition instance for each key (the
// evaluable form, including the original entity tuple) so
// MatchesInitialState can re-evaluate it against the live world. The two
// maps are always kept with identical key sets.
type CandidatePlan struct {
	conditions map[Key]bool
	bound      map[Key]Condition
	actions    []GroundAction
}

// newCandidatePlan seeds a candidate with a single required proposition
// (the goal) and an empty action suffix, per the planner's BFS seed step.
func newCandidatePlan(goalCondition Condition, value bool) *CandidatePlan {
	key := goalCondition.PlanningKey()
	return &CandidatePlan{
		conditions: map[Key]bool{key: value},
		bound:      map[Key]Condition{key: goalCondition},
	}
}

// Conditions returns a copy of the required-prior-state mapping.
func (p *CandidatePlan) Conditions() map[Key]bool {
	out := make(map[Key]bool, len(p.conditions))
	for k, v := range p.conditions {
		out[k] = v
	}
	return out
}

// Actions returns a copy of the ordered action suffix.
func (p *CandidatePlan) Actions() []GroundAction {
	out := make([]GroundAction, len(p.actions))
	copy(out, p.actions)
	return out
}

// MatchesInitialState reports whether every required condition holds
// against the live world. A condition that evaluates to ErrImpossible, or
// any other error, counts as a mismatch rather than propagating, matching
// spec §4.3's matches_initial_conditions.
func (p *CandidatePlan) MatchesInitialState() bool {
	for key, want := range p.conditions {
		cond := p.bound[key]
		value, err := cond.Evaluate()
		if err != nil || value != want {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the conditions/bound maps and actions slice;
// entity references (inside bound Conditions and action bindings) are
// shared, per spec §4.3.
func (p *CandidatePlan) Copy() *CandidatePlan {
	out := &CandidatePlan{
		conditions: make(map[Key]bool, len(p.conditions)),
		bound:      make(map[Key]Condition, len(p.bound)),
		actions:    make([]GroundAction, len(p.actions)),
	}
	for k, v := range p.conditions {
		out.conditions[k] = v
	}
	for k, v := range p.bound {
		out.bound[k] = v
	}
	copy(out.actions, p.actions)
	return out
}

// PrependAction prepends a ground action to the suffix and regresses the
// required conditions: established effects are removed, then the action's
// own preconditions are unioned in. This is the "remove-then-add" rule
// spec §4.3 and §9 call for (in preference to the original source's
// precondition-only variant).
func (p *CandidatePlan) PrependAction(ga GroundAction) error {
	effects, err := ga.Action.CalculateEffects(ga.Actor, ga.Binding)
	if err != nil {
		return err
	}
	for key, value := range effects {
		if existing, ok := p.conditions[key]; ok && existing == value {
			delete(p.conditions, key)
			delete(p.bound, key)
		}
	}

	preconditions, err := ga.Action.CalculatePreconditions(ga.Actor, ga.Binding)
	if err != nil {
		return err
	}
	for _, clause := range preconditions {
		key := clause.Key()
		p.conditions[key] = clause.Value
		p.bound[key] = clause.Condition
	}

	p.actions = append([]GroundAction{ga}, p.actions...)
	return nil
}
