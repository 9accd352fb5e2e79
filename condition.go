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
)

type (
	// Entity is an opaque, externally-owned reference to a world object,
	// comparable by identity. The planner never constructs or destroys
	// entities, and never reads or writes their attributes directly; it
	// only ever threads them through Condition/Action bindings. In
	// practice Entity values are pointers to domain-specific structs, but
	// any comparable Go value works.
	Entity any

	// Evaluator is the user-supplied body of a condition class. It reads
	// whatever attributes it needs from the bound tuple and returns the
	// predicate's truth value, or ErrImpossible (wrapped or bare) if the
	// tuple can never satisfy the predicate under any reachable state.
	Evaluator func(tuple []Entity) (bool, error)

	// ConditionSpec is a condition class: a fixed arity plus an evaluator
	// body. Construct one with DefineCondition, or use the builtin Is /
	// IsNot specs.
	ConditionSpec struct {
		name     string
		arity    int
		evaluate Evaluator
	}

	// Condition is a ConditionSpec bound to an ordered tuple of entities.
	Condition struct {
		spec  *ConditionSpec
		tuple []Entity
	}

	// Key is the canonical "planning tuple": a (ConditionSpec, bound
	// tuple) pair, usable as a map key. Two Conditions built from the same
	// spec and an equal tuple produce equal Keys.
	Key struct {
		Spec *ConditionSpec
		id   string
	}
)

// DefineCondition declares a new condition class with the given display
// name, fixed arity, and evaluator body.
func DefineCondition(name string, arity int, evaluate Evaluator) (*ConditionSpec, error) {
	if arity < 0 {
		return nil, fmt.Errorf(`strips: condition %q: negative arity: %w`, name, ErrInvalidArgument)
	}
	if evaluate == nil {
		return nil, fmt.Errorf(`strips: condition %q: nil evaluator: %w`, name, ErrInvalidArgument)
	}
	return &ConditionSpec{name: name, arity: arity, evaluate: evaluate}, nil
}

// Name returns the condition class's display name.
func (s *ConditionSpec) Name() string { return s.name }

// Arity returns the condition class's fixed arity.
func (s *ConditionSpec) Arity() int { return s.arity }

// Bind pairs the condition class with an ordered tuple of entities,
// producing a bound Condition instance. The tuple length must equal the
// class's arity.
func (s *ConditionSpec) Bind(tuple ...Entity) (Condition, error) {
	if len(tuple) != s.arity {
		return Condition{}, fmt.Errorf(
			`strips: condition %q: expected %d entities, got %d: %w`,
			s.name, s.arity, len(tuple), ErrInvalidArgument,
		)
	}
	bound := make([]Entity, len(tuple))
	copy(bound, tuple)
	return Condition{spec: s, tuple: bound}, nil
}

// Spec returns the condition class this instance was bound from.
func (c Condition) Spec() *ConditionSpec { return c.spec }

// Tuple returns the bound entities, in declaration order.
func (c Condition) Tuple() []Entity {
	tuple := make([]Entity, len(c.tuple))
	copy(tuple, c.tuple)
	return tuple
}

// Evaluate reads the bound entities' attributes (via the condition class's
// evaluator) and returns the predicate's truth value. It returns
// ErrImpossible (directly or wrapped) when the binding is a structural
// dead end.
func (c Condition) Evaluate() (bool, error) {
	if c.spec == nil {
		return false, fmt.Errorf(`strips: evaluate on zero-value condition: %w`, ErrInvalidArgument)
	}
	return c.spec.evaluate(c.tuple)
}

// PlanningKey returns the canonical ground-proposition key for this bound
// condition, usable as a map key and comparable across separately
// constructed instances bound to the same spec and tuple.
func (c Condition) PlanningKey() Key {
	return Key{Spec: c.spec, id: identityOf(c.tuple)}
}

func (c Condition) String() string {
	return fmt.Sprintf(`%s%v`, c.spec.name, c.tuple)
}

// identityOf builds a stable string identity for a tuple of entities.
// Pointer-typed entities (the common case: domain objects are structs
// referenced by pointer) are distinguished by address via %p. Deliberately
// excludes any attribute-derived representation (e.g. a String() method,
// which %v would invoke) so that mutating an entity's attributes after
// binding never changes its planning key.
func identityOf(tuple []Entity) string {
	b := make([]byte, 0, 16*len(tuple))
	for _, e := range tuple {
		b = append(b, fmt.Sprintf(`%T:%p|`, e, e)...)
	}
	return string(b)
}

// Is is the builtin reflexive identity condition: true iff both bound
// entities are the same entity, else ErrImpossible (no action could ever
// make distinct entities identical).
var Is = &ConditionSpec{
	name:  `Is`,
	arity: 2,
	evaluate: func(tuple []Entity) (bool, error) {
		if tuple[0] == tuple[1] {
			return true, nil
		}
		return false, ErrImpossible
	},
}

// IsNot is the builtin non-identity condition: true iff the two bound
// entities differ, else ErrImpossible.
var IsNot = &ConditionSpec{
	name:  `IsNot`,
	arity: 2,
	evaluate: func(tuple []Entity) (bool, error) {
		if tuple[0] != tuple[1] {
			return true, nil
		}
		return false, ErrImpossible
	},
}
