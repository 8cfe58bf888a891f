package main

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/paths"
	"github.com/carton-pm/carton/pkg/source"
	"github.com/carton-pm/carton/pkg/types"
)

// openSource creates and updates a PathSource for dir
func openSource(dir string) (*source.PathSource, error) {
	src, err := source.ForPath(dir)
	if err != nil {
		return nil, err
	}
	if err := src.Update(); err != nil {
		return nil, err
	}
	return src, nil
}

// resolvePackage picks the named package, or the root package when name is empty
func resolvePackage(src *source.PathSource, name string) (*types.Package, error) {
	if name == "" {
		return src.GetRootPackage()
	}
	pkgs, err := src.ReadPackages()
	if err != nil {
		return nil, err
	}
	for _, pkg := range pkgs {
		if pkg.Name() == name {
			return pkg, nil
		}
	}
	return nil, errors.Newf(errors.ErrPackageNotFound, "package `%s` not found in source", name).
		WithDetail("package", name)
}

func newPackagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packages <dir>",
		Short: "List the packages discovered under a source directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0])
			if err != nil {
				return err
			}
			pkgs, err := src.ReadPackages()
			if err != nil {
				return err
			}
			for _, pkg := range pkgs {
				fmt.Printf("%s v%s  %s\n",
					nameStyle.Render(pkg.Name()),
					pkg.Summary().Version(),
					detailStyle.Render(pkg.Root()))
			}
			return nil
		},
	}
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <dir> [package]",
		Short: "List the files belonging to a package",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			pkg, err := resolvePackage(src, name)
			if err != nil {
				return err
			}
			files, err := src.ListFiles(pkg)
			if err != nil {
				return err
			}
			for _, file := range files {
				if rel := paths.RelativeTo(pkg.Root(), file); rel != "" {
					fmt.Println(rel)
				} else {
					fmt.Println(file)
				}
			}
			return nil
		},
	}
}

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <dir> [package]",
		Short: "Print the staleness fingerprint of a package",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			pkg, err := resolvePackage(src, name)
			if err != nil {
				return err
			}
			fingerprint, err := src.Fingerprint(pkg)
			if err != nil {
				return err
			}
			fmt.Println(fingerprint)
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <dir> <name> [constraint]",
		Short: "Find the packages satisfying a dependency",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0])
			if err != nil {
				return err
			}

			var constraint *semver.Constraints
			if len(args) == 3 {
				constraint, err = semver.NewConstraint(args[2])
				if err != nil {
					return errors.Wrapf(err, errors.ErrInvalidInput, "invalid constraint `%s`", args[2])
				}
			}

			summaries, err := src.Query(types.NewDependency(args[1], constraint))
			if err != nil {
				return err
			}
			for _, summary := range summaries {
				fmt.Printf("%s v%s  %s\n",
					nameStyle.Render(summary.Name()),
					summary.Version(),
					detailStyle.Render(fmt.Sprintf("%d dependencies, %d features",
						len(summary.Dependencies()), len(summary.Features()))))
			}
			return nil
		},
	}
}
