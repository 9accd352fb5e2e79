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

// Command stripsdemo runs the worked planning scenarios non-interactively,
// printing the resolved action sequence (or planning failure) for each.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mnml/strips"
	"github.com/mnml/strips/examples/camelot"
)

var (
	verbose  bool
	maxDepth int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   `stripsdemo`,
	Short: `stripsdemo runs the Camelot worked scenarios through the strips planner`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf(`stripsdemo: init logger: %w`, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var knightDragonCmd = &cobra.Command{
	Use:   `knight-dragon`,
	Short: `run the trivial/two-step Kill scenario`,
	RunE: func(cmd *cobra.Command, args []string) error {
		world, err := camelot.NewWorld()
		if err != nil {
			return err
		}
		knight := camelot.NewAgent(`knight`)
		dragon := camelot.NewAgent(`dragon`)
		goal, err := world.GoalDead(dragon)
		if err != nil {
			return err
		}
		return runScenario(cmd, knight, goal, world.Actions(), []strips.Entity{knight, dragon})
	},
}

var roundTableCmd = &cobra.Command{
	Use:   `round-table`,
	Short: `run the two-step StealSword-then-Kill scenario`,
	RunE: func(cmd *cobra.Command, args []string) error {
		world, err := camelot.NewWorld()
		if err != nil {
			return err
		}
		arthur := camelot.NewAgent(`arthur`)
		lancelot := camelot.NewAgent(`lancelot`)
		lancelot.HasSword = true
		guenivere := camelot.NewAgent(`guenivere`)
		goal, err := world.GoalDead(guenivere)
		if err != nil {
			return err
		}
		actions := []*strips.ActionSpec{world.Kill, world.StealSword, world.GiveSword}
		objects := []strips.Entity{arthur, lancelot, guenivere}
		return runScenario(cmd, arthur, goal, actions, objects)
	},
}

var depthExceededCmd = &cobra.Command{
	Use:   `depth-exceeded`,
	Short: `run the unarmed-knight-without-GetSword scenario, which exhausts the depth bound`,
	RunE: func(cmd *cobra.Command, args []string) error {
		world, err := camelot.NewWorld()
		if err != nil {
			return err
		}
		knight := camelot.NewAgent(`knight`)
		dragon := camelot.NewAgent(`dragon`)
		goal, err := world.GoalDead(dragon)
		if err != nil {
			return err
		}
		return runScenario(cmd, knight, goal, []*strips.ActionSpec{world.Kill}, []strips.Entity{knight, dragon})
	},
}

func runScenario(cmd *cobra.Command, actor strips.Entity, goal strips.Goal, actions []*strips.ActionSpec, objects []strips.Entity) error {
	plan, err := strips.Select(actor, goal, actions, objects,
		strips.WithMaxDepth(maxDepth),
		strips.WithLogger(strips.NewLogger(logger)),
	)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), `goal already satisfied; empty plan`)
		return nil
	}
	for i, ga := range plan {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s %v\n", i+1, ga.Action.Name(), ga.Binding)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, `verbose`, `v`, false, `enable debug-level planner tracing`)
	rootCmd.PersistentFlags().IntVar(&maxDepth, `max-depth`, 3, `planner search depth bound`)
	rootCmd.AddCommand(knightDragonCmd, roundTableCmd, depthExceededCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
