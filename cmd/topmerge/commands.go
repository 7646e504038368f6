package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rmera/topmerge/include"
	"github.com/rmera/topmerge/internal/logger"
	"github.com/rmera/topmerge/top"
	"github.com/spf13/cobra"
)

type mergeOptions struct {
	inputs   []string
	output   string
	manifest string
}

func newMergeCmd(a *app) *cobra.Command {
	o := &mergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge -p A.top [-p B.top ...] -o out.top",
		Short: "Merge topologies into one",
		Long: `Merge reads each input topology and merges them, in the order given, into
one. The parameters are merged directive by directive, without repeating lines.
The molecule types are put one after the other, and the molecule counts of each
input are multiplied by the respective -n value (1 by default). The defaults and
system name of the first input are kept.

Position restraints in every molecule type are set to the --posres constants.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMerge(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&o.inputs, "topology", "p", nil, "input topology (can be repeated)")
	f.StringVarP(&o.output, "output", "o", "", "output topology")
	f.IntSliceP("nmol", "n", nil, "number of copies of the system of each input (one per -p)")
	f.String("posres", "", "position restraint force constants, as x,y,z [default: 1000,1000,1000]")
	f.StringP("prefix", "b", "", "prefix for the included files [default: name of the output]")
	f.StringVar(&o.manifest, "manifest", "", "write a YAML description of the output files here")
	mustBind(a.v, "nmol", cmd, "nmol")
	mustBind(a.v, "posres", cmd, "posres")
	mustBind(a.v, "prefix", cmd, "prefix")
	return cmd
}

func (a *app) params() (top.Params, error) {
	p := top.DefaultParams()
	lib, err := a.library()
	if err != nil {
		return p, err
	}
	p.Library = lib
	if p.PosRes, err = a.posres(); err != nil {
		return p, err
	}
	p.Prefix = a.v.GetString("prefix")
	return p, nil
}

func (a *app) runMerge(cmd *cobra.Command, o *mergeOptions) error {
	if err := checkInputs(o.inputs...); err != nil {
		return err
	}
	if err := a.checkOutput(cmd, o.output); err != nil {
		return err
	}
	p, err := a.params()
	if err != nil {
		return err
	}
	nmol := a.v.GetIntSlice("nmol")
	if len(nmol) > len(o.inputs) {
		return fmt.Errorf("%d -n values given for %d topologies", len(nmol), len(o.inputs))
	}
	var T *top.Topology
	for i, in := range o.inputs {
		p.NMol = 1
		if i < len(nmol) {
			p.NMol = nmol[i]
		}
		t, err := top.FromFile(in, p, a.chooser(cmd))
		if err != nil {
			return err
		}
		logger.Debug("read topology", "file", in, "molecules", t.Len())
		if T == nil {
			T = t
			continue
		}
		if T.DefaultsConflict(t) {
			logger.Warn("the [ defaults ] sections differ, keeping those of the first topology", "file", in)
		}
		for _, r := range top.Redefinitions(T.Parameters, t.Parameters) {
			logger.Warn("parameter redefined, both definitions are kept", "directive", r.Directive,
				"old", strings.TrimSpace(r.Old), "new", strings.TrimSpace(r.New), "file", in)
		}
		T.Merge(t)
	}
	if err := T.Write(top.DirSink{}, o.output, logger.Created); err != nil {
		return err
	}
	if o.manifest == "" {
		return nil
	}
	M := T.Manifest(o.output)
	M.Sources = o.inputs
	f, err := os.Create(o.manifest)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if _, err := M.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Created(o.manifest)
	return nil
}

func newExtendCmd(a *app) *cobra.Command {
	var input, output string
	var banner bool
	cmd := &cobra.Command{
		Use:   "extend -p A.top -o flat.top",
		Short: "Write a topology with all its includes expanded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkInputs(input); err != nil {
				return err
			}
			if err := a.checkOutput(cmd, output); err != nil {
				return err
			}
			r, err := a.resolver(cmd)
			if err != nil {
				return err
			}
			F := include.NewFlattener(r)
			F.Banner = banner
			lines, err := F.Flatten(input)
			if err != nil {
				return err
			}
			if err := top.NewLines(lines).WriteToFile(output); err != nil {
				return err
			}
			logger.Created(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "topology", "p", "", "input topology")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output topology")
	cmd.Flags().BoolVar(&banner, "banner", false, "mark the start of each included file with a comment")
	return cmd
}

func newCollectCmd(a *app) *cobra.Command {
	var input, output, prefix string
	cmd := &cobra.Command{
		Use:   "collect -p A.top -o out.top",
		Short: "Copy a topology and all the files it includes to one place",
		Long: `Collect copies the input topology to the output, and every file it includes,
directly or not, to the directory of the output, named <prefix>_<name>. The
include statements are changed to refer to the copies. Without a prefix, the
name of the output file (without its extension) is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkInputs(input); err != nil {
				return err
			}
			if err := a.checkOutput(cmd, output); err != nil {
				return err
			}
			r, err := a.resolver(cmd)
			if err != nil {
				return err
			}
			C := &include.Collector{Resolver: r, Prefix: prefix}
			created, err := C.Collect(input, output)
			for _, c := range created {
				logger.Created(c)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "topology", "p", "", "input topology")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output topology")
	cmd.Flags().StringVarP(&prefix, "prefix", "b", "", "prefix for the copied files (default: name of the output)")
	return cmd
}

func newIncludesCmd(a *app) *cobra.Command {
	var input string
	var found bool
	cmd := &cobra.Command{
		Use:   "includes -p A.top",
		Short: "Print the files a topology includes, in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkInputs(input); err != nil {
				return err
			}
			r, err := a.resolver(cmd)
			if err != nil {
				return err
			}
			G, err := include.Graph(input, r)
			if err != nil {
				return err
			}
			for _, c := range G.Cycles() {
				logger.Warn("include cycle", "files", strings.Join(c, " -> "))
			}
			logger.Debug("include graph", "files", G.Len(), "edges", len(G.Edges()))
			order := G.Files()
			if !found {
				if order, err = G.Order(); err != nil {
					return err
				}
			}
			for _, f := range order {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "topology", "p", "", "input topology")
	cmd.Flags().BoolVar(&found, "found-order", false, "print the files in the order they are found, which works with include cycles")
	return cmd
}
