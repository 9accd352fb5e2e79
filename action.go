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
	"errors"
	"fmt"
	"sort"

	bt "github.com/joeycumines/go-behaviortree"
)

const (
	// ActorRole is the distinguished role name always bound to the acting
	// entity. It is never part of ObjectKeys.
	ActorRole = `actor`
)

type (
	// Binding maps role names to the entities bound to them for a single
	// action invocation. It must not contain ActorRole.
	Binding map[string]Entity

	// RoleSpec identifies the role(s) a precondition or effect triple is
	// evaluated against: either a single role name (arity-1 condition) or
	// an ordered tuple of role names (arity >= 2).
	RoleSpec []string

	// Clause is one precondition or effect triple: a condition class, the
	// role names its tuple is bound from (in declaration order), and the
	// expected/post-condition boolean value.
	Clause struct {
		Condition *ConditionSpec
		Roles     RoleSpec
		Value     bool
	}

	// ApplyFunc performs the state mutation an action's effects describe.
	// It is gated by CheckPreconditions and is never called by the
	// planner itself, only by a driver executing a chosen plan.
	ApplyFunc func(actor Entity, bindings Binding) error

	// ActionSpec is an action class: a name, its precondition/effect
	// clauses, and the mutation it performs when applied.
	ActionSpec struct {
		name          string
		preconditions []Clause
		effects       []Clause
		apply         ApplyFunc
		objectKeys    []string
	}
)

// DefineAction declares a new action class. object_keys() is derived
// deterministically from the union of role names appearing in
// preconditions and effects, excluding ActorRole.
func DefineAction(name string, preconditions, effects []Clause, apply ApplyFunc) (*ActionSpec, error) {
	if apply == nil {
		return nil, fmt.Errorf(`strips: action %q: nil apply func: %w`, name, ErrInvalidArgument)
	}
	keys := make(map[string]struct{})
	for _, clause := range append(append([]Clause{}, preconditions...), effects...) {
		if clause.Condition == nil {
			return nil, fmt.Errorf(`strips: action %q: clause with nil condition: %w`, name, ErrInvalidArgument)
		}
		if len(clause.Roles) != clause.Condition.Arity() {
			return nil, fmt.Errorf(
				`strips: action %q: condition %q expects %d roles, got %d: %w`,
				name, clause.Condition.Name(), clause.Condition.Arity(), len(clause.Roles), ErrInvalidArgument,
			)
		}
		for _, role := range clause.Roles {
			if role != ActorRole {
				keys[role] = struct{}{}
			}
		}
	}
	objectKeys := make([]string, 0, len(keys))
	for key := range keys {
		objectKeys = append(objectKeys, key)
	}
	sort.Strings(objectKeys)
	return &ActionSpec{
		name:          name,
		preconditions: append([]Clause{}, preconditions...),
		effects:       append([]Clause{}, effects...),
		apply:         apply,
		objectKeys:    objectKeys,
	}, nil
}

// Name returns the action class's display name.
func (a *ActionSpec) Name() string { return a.name }

// ObjectKeys returns the deterministic, sorted set of role names (other
// than actor) this action's preconditions/effects reference.
func (a *ActionSpec) ObjectKeys() []string {
	keys := make([]string, len(a.objectKeys))
	copy(keys, a.objectKeys)
	return keys
}

// ObjectNames returns the deduplicated, sorted set of non-actor role names
// this clause's tuple is bound from.
func (c Clause) ObjectNames() []string {
	seen := make(map[string]struct{}, len(c.Roles))
	for _, role := range c.Roles {
		if role != ActorRole {
			seen[role] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// bindTuple resolves a clause's roles against actor + bindings, in
// declaration order.
func bindTuple(actor Entity, bindings Binding, roles RoleSpec) []Entity {
	tuple := make([]Entity, len(roles))
	for i, role := range roles {
		if role == ActorRole {
			tuple[i] = actor
		} else {
			tuple[i] = bindings[role]
		}
	}
	return tuple
}

// checkKeys verifies bindings' key set equals ObjectKeys exactly.
func (a *ActionSpec) checkKeys(bindings Binding) error {
	if len(bindings) != len(a.objectKeys) {
		return fmt.Errorf(
			`strips: action %q: binding key count %d != object key count %d: %w`,
			a.name, len(bindings), len(a.objectKeys), ErrInvalidArgument,
		)
	}
	for _, key := range a.objectKeys {
		if _, ok := bindings[key]; !ok {
			return fmt.Errorf(`strips: action %q: missing binding for role %q: %w`, a.name, key, ErrInvalidArgument)
		}
	}
	return nil
}

// CheckPreconditions returns true iff bindings' key set equals ObjectKeys
// and every precondition clause evaluates to its declared value. A clause
// that evaluates false, or signals ErrImpossible, makes this return false
// (never an error) for that reason; mismatched binding key sets are a hard
// error.
func (a *ActionSpec) CheckPreconditions(actor Entity, bindings Binding) (bool, error) {
	if err := a.checkKeys(bindings); err != nil {
		return false, err
	}
	for _, clause := range a.preconditions {
		tuple := bindTuple(actor, bindings, clause.Roles)
		cond, err := clause.Condition.Bind(tuple...)
		if err != nil {
			return false, err
		}
		value, err := cond.Evaluate()
		if err != nil {
			if isImpossible(err) {
				return false, nil
			}
			return false, err
		}
		if value != clause.Value {
			return false, nil
		}
	}
	return true, nil
}

// Apply runs the action's mutation, first gating on CheckPreconditions.
// It is not called by the planner; a driver calls it to realize a chosen
// plan against live entities.
func (a *ActionSpec) Apply(actor Entity, bindings Binding) error {
	ok, err := a.CheckPreconditions(actor, bindings)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf(`strips: action %q: %w`, a.name, ErrPreconditionsNotMet)
	}
	return a.apply(actor, bindings)
}

// CalculateEffects returns the ground effects this action would produce
// for the given binding, as a map from planning key to post-condition
// value. Pure: it never reads entity attribute state.
func (a *ActionSpec) CalculateEffects(actor Entity, bindings Binding) (map[Key]bool, error) {
	if err := a.checkKeys(bindings); err != nil {
		return nil, err
	}
	effects := make(map[Key]bool, len(a.effects))
	for _, clause := range a.effects {
		tuple := bindTuple(actor, bindings, clause.Roles)
		cond, err := clause.Condition.Bind(tuple...)
		if err != nil {
			return nil, err
		}
		effects[cond.PlanningKey()] = clause.Value
	}
	return effects, nil
}

// GroundClause is one entry of CalculatePreconditions: a bound condition
// plus the value required of it. Unlike CalculateEffects (which only needs
// equality-comparable keys for the match predicate), callers regressing a
// precondition into a CandidatePlan need the bound Condition itself so it
// can later be re-evaluated against the live world.
type GroundClause struct {
	Condition Condition
	Value     bool
}

// Key returns the ground proposition key for this clause.
func (g GroundClause) Key() Key { return g.Condition.PlanningKey() }

// CalculatePreconditions returns the ordered list of ground preconditions
// this action requires for the given binding. Pure: it never reads entity
// attribute state.
func (a *ActionSpec) CalculatePreconditions(actor Entity, bindings Binding) ([]GroundClause, error) {
	if err := a.checkKeys(bindings); err != nil {
		return nil, err
	}
	preconditions := make([]GroundClause, 0, len(a.preconditions))
	for _, clause := range a.preconditions {
		tuple := bindTuple(actor, bindings, clause.Roles)
		cond, err := clause.Condition.Bind(tuple...)
		if err != nil {
			return nil, err
		}
		preconditions = append(preconditions, GroundClause{Condition: cond, Value: clause.Value})
	}
	return preconditions, nil
}

func isImpossible(err error) bool {
	return errors.Is(err, ErrImpossible)
}

// Node adapts the action to a behavior-tree leaf: ticking it checks
// preconditions and, if they hold, applies the action's effects,
// generalizing the teacher's Action.Node() contract so a driver can
// compose a planner-selected action sequence into a bt.Sequence for
// execution.
func (a *ActionSpec) Node(actor Entity, bindings Binding) bt.Node {
	return bt.New(func(children []bt.Node) (bt.Status, error) {
		ok, err := a.CheckPreconditions(actor, bindings)
		if err != nil {
			return bt.Failure, err
		}
		if !ok {
			return bt.Failure, nil
		}
		if err := a.apply(actor, bindings); err != nil {
			return bt.Failure, err
		}
		return bt.Success, nil
	})
}
