package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreflux/netcfgd/adapters/filesource"
	"github.com/coreflux/netcfgd/core/cfgerr"
	"github.com/coreflux/netcfgd/core/logging"
	"github.com/coreflux/netcfgd/core/manifest"
	"github.com/coreflux/netcfgd/core/module"
	"github.com/coreflux/netcfgd/modules/core"
)

const (
	checkMark = "✓"
	crossMark = "✗"
)

var manifestDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and dispatch the configuration file without starting any module",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&manifestDir, "manifests", "", "directory of module descriptor YAML files to list before validating")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := logging.New()
	ctx := context.Background()

	if manifestDir != "" {
		if err := printManifests(manifestDir); err != nil {
			fmt.Fprintf(os.Stderr, "%s load manifests from %s: %v\n", crossMark, manifestDir, err)
			return err
		}
	}

	src := filesource.New(cfgFile)
	text, err := src.Read(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s read %s: %v\n", crossMark, cfgFile, err)
		return err
	}

	coord := module.New(logger, nil)
	coreMod, _ := core.New(logger)
	if err := coord.Register(ctx, coreMod); err != nil {
		fmt.Fprintf(os.Stderr, "%s register core module: %v\n", crossMark, err)
		return err
	}

	if err := coord.Validate(ctx, text); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", crossMark, err)
		if kind := classify(err); kind != "" {
			fmt.Fprintf(os.Stderr, "  kind: %s\n", kind)
		}
		return err
	}

	fmt.Printf("%s %s parses and dispatches cleanly\n", checkMark, cfgFile)
	return nil
}

// printManifests loads every module descriptor under dir and prints a
// one-line summary of each, so an operator can see what modules a deploy
// declares without reading Go source.
func printManifests(dir string) error {
	descriptors, err := manifest.ParseDir(dir)
	if err != nil {
		return err
	}
	for _, d := range descriptors {
		fmt.Printf("%s module %s", checkMark, d.Name)
		if d.Version != "" {
			fmt.Printf(" (%s)", d.Version)
		}
		if len(d.Depends) > 0 {
			fmt.Printf(" depends on %v", d.Depends)
		}
		fmt.Println()
	}
	return nil
}

func classify(err error) cfgerr.Kind {
	for _, k := range []cfgerr.Kind{
		cfgerr.KindSyntax, cfgerr.KindCapacity, cfgerr.KindInvalidIdentifier,
		cfgerr.KindUnknownDirective, cfgerr.KindDuplicate, cfgerr.KindMissingRequired,
		cfgerr.KindValueOutOfRange, cfgerr.KindBadValue, cfgerr.KindAllocationFailure,
		cfgerr.KindLifecycle,
	} {
		if cfgerr.HasKind(err, k) {
			return k
		}
	}
	return ""
}
