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
	"reflect"
	"sort"
	"testing"
)

type knight struct {
	alive    bool
	hasSword bool
}

// killFixture builds the IsAlive/HasSword condition specs and the Kill
// action spec together, so tests can rebuild matching planning keys from
// the same *ConditionSpec instances the action was defined against.
type killFixture struct {
	isAlive  *ConditionSpec
	hasSword *ConditionSpec
	kill     *ActionSpec
}

func newKillFixture(t *testing.T) killFixture {
	t.Helper()
	isAlive, err := DefineCondition(`IsAlive`, 1, func(tuple []Entity) (bool, error) {
		return tuple[0].(*knight).alive, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	hasSword, err := DefineCondition(`HasSword`, 1, func(tuple []Entity) (bool, error) {
		return tuple[0].(*knight).hasSword, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	kill, err := DefineAction(
		`Kill`,
		[]Clause{
			{Condition: isAlive, Roles: RoleSpec{`victim`}, Value: true},
			{Condition: hasSword, Roles: RoleSpec{ActorRole}, Value: true},
		},
		[]Clause{
			{Condition: isAlive, Roles: RoleSpec{`victim`}, Value: false},
		},
		func(actor Entity, bindings Binding) error {
			bindings[`victim`].(*knight).alive = false
			return nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return killFixture{isAlive: isAlive, hasSword: hasSword, kill: kill}
}

func TestActionSpec_ObjectKeys(t *testing.T) {
	fixture := newKillFixture(t)
	got := fixture.kill.ObjectKeys()
	sort.Strings(got)
	want := []string{`victim`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf(`ObjectKeys() = %v, want %v`, got, want)
	}
}

func TestActionSpec_CheckPreconditions(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{hasSword: true}
	victim := &knight{alive: true}

	ok, err := fixture.kill.CheckPreconditions(actor, Binding{`victim`: victim})
	if err != nil || !ok {
		t.Fatalf(`expected true, nil; got %v, %v`, ok, err)
	}

	victim.alive = false
	ok, err = fixture.kill.CheckPreconditions(actor, Binding{`victim`: victim})
	if err != nil || ok {
		t.Fatalf(`expected false, nil; got %v, %v`, ok, err)
	}
}

func TestActionSpec_CheckPreconditions_bindingMismatch(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{hasSword: true}
	if _, err := fixture.kill.CheckPreconditions(actor, Binding{`wrong_key`: &knight{}}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf(`expected ErrInvalidArgument, got %v`, err)
	}
	if _, err := fixture.kill.CheckPreconditions(actor, Binding{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf(`expected ErrInvalidArgument, got %v`, err)
	}
}

func TestActionSpec_Apply(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{hasSword: true}
	victim := &knight{alive: true}

	if err := fixture.kill.Apply(actor, Binding{`victim`: victim}); err != nil {
		t.Fatal(err)
	}
	if victim.alive {
		t.Errorf(`expected victim to be dead after Apply`)
	}
}

func TestActionSpec_Apply_preconditionsNotMet(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{hasSword: false}
	victim := &knight{alive: true}

	err := fixture.kill.Apply(actor, Binding{`victim`: victim})
	if !errors.Is(err, ErrPreconditionsNotMet) {
		t.Errorf(`expected ErrPreconditionsNotMet, got %v`, err)
	}
}

func TestActionSpec_CalculateEffects(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{}
	victim := &knight{}

	effects, err := fixture.kill.CalculateEffects(actor, Binding{`victim`: victim})
	if err != nil {
		t.Fatal(err)
	}
	cond, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}
	value, ok := effects[cond.PlanningKey()]
	if !ok || value != false {
		t.Fatalf(`expected effects[IsAlive(victim)] == false, got %v, %v`, value, ok)
	}
	if len(effects) != 1 {
		t.Errorf(`expected exactly 1 effect, got %d`, len(effects))
	}
}

func TestActionSpec_CalculatePreconditions(t *testing.T) {
	fixture := newKillFixture(t)
	actor := &knight{}
	victim := &knight{}

	preconditions, err := fixture.kill.CalculatePreconditions(actor, Binding{`victim`: victim})
	if err != nil {
		t.Fatal(err)
	}
	if len(preconditions) != 2 {
		t.Fatalf(`expected 2 preconditions, got %d`, len(preconditions))
	}
	for _, clause := range preconditions {
		if clause.Value != true {
			t.Errorf(`expected Kill's preconditions to require true, got %v for %v`, clause.Value, clause.Condition)
		}
	}

	isAliveVictim, err := fixture.isAlive.Bind(victim)
	if err != nil {
		t.Fatal(err)
	}
	hasSwordActor, err := fixture.hasSword.Bind(actor)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Key]bool{
		isAliveVictim.PlanningKey(): true,
		hasSwordActor.PlanningKey(): true,
	}
	got := make(map[Key]bool, len(preconditions))
	for _, clause := range preconditions {
		got[clause.Key()] = clause.Value
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf(`CalculatePreconditions() keys = %v, want %v`, got, want)
	}
}

func TestDefineAction_nilApply(t *testing.T) {
	fixture := newKillFixture(t)
	_, err := DefineAction(`NoOp`, []Clause{{Condition: fixture.isAlive, Roles: RoleSpec{`victim`}, Value: true}}, nil, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf(`expected ErrInvalidArgument, got %v`, err)
	}
}

func TestDefineAction_roleArityMismatch(t *testing.T) {
	fixture := newKillFixture(t)
	_, err := DefineAction(
		`Bad`,
		[]Clause{{Condition: fixture.isAlive, Roles: RoleSpec{`a`, `b`}, Value: true}},
		nil,
		func(Entity, Binding) error { return nil },
	)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf(`expected ErrInvalidArgument, got %v`, err)
	}
}
