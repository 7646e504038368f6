package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmera/topmerge/include"
	"github.com/rmera/topmerge/internal/logger"
	"github.com/rmera/topmerge/top"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	overwrite  bool
	in         *bufio.Reader
}

func mustBind(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}
	if err := v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", name, err))
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "topmerge",
		Short: "Merge Gromacs topologies",
		Long: `Topmerge reads Gromacs topologies (.top/.itp), following their #include
statements through the force field libraries, and merges them into a single
topology, written as a main file plus one file for the parameters and one per
molecule type.

Library directories are searched, in order, after the directory of the including
file. If none is given, the directories in GMXLIB are used, or the current one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.readConfig(); err != nil {
				return err
			}
			return logger.Configure(a.v.GetString("log-level"), a.v.GetString("log-file"))
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is .topmerge.yaml in the current or home directory)")
	pf.StringSliceP("library", "l", nil, "library directories where included files are searched for (can be repeated)")
	pf.String("log-level", "", "log level (debug|info|warn|error) [default: info]")
	pf.String("log-file", "", "write logs to file instead of stderr")
	pf.BoolVarP(&a.overwrite, "overwrite", "O", false, "overwrite output files without asking")
	pf.Bool("first", false, "when an include matches several files, use the first instead of asking")
	mustBind(a.v, "library", cmd, "library")
	mustBind(a.v, "log-level", cmd, "log-level")
	mustBind(a.v, "log-file", cmd, "log-file")
	mustBind(a.v, "first", cmd, "first")

	a.v.SetEnvPrefix("TOPMERGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(newMergeCmd(a), newExtendCmd(a), newCollectCmd(a), newIncludesCmd(a))
	return cmd
}

func (a *app) readConfig() error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName(".topmerge")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// library returns the library directories, which must exist.
func (a *app) library() ([]string, error) {
	lib := a.v.GetStringSlice("library")
	if len(lib) == 0 {
		lib = filepath.SplitList(os.Getenv("GMXLIB"))
	}
	if len(lib) == 0 {
		lib = []string{"."}
	}
	for _, d := range lib {
		info, err := os.Stat(d)
		if err != nil {
			return nil, fmt.Errorf("library directory %s: %w", d, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("library %s is not a directory", d)
		}
	}
	return lib, nil
}

// posres returns the position restraint constants, given in the
// flag or environment as "x,y,z", or in the config file as a list.
func (a *app) posres() ([3]float64, error) {
	ret := top.DefaultParams().PosRes
	raw := a.v.Get("posres")
	var fields []interface{}
	switch r := raw.(type) {
	case nil:
		return ret, nil
	case string:
		if r == "" {
			return ret, nil
		}
		for _, s := range strings.Split(r, ",") {
			fields = append(fields, strings.TrimSpace(s))
		}
	default:
		var err error
		if fields, err = cast.ToSliceE(raw); err != nil {
			return ret, fmt.Errorf("posres: %w", err)
		}
	}
	if len(fields) != 3 {
		return ret, fmt.Errorf("posres needs 3 values, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := cast.ToFloat64E(f)
		if err != nil {
			return ret, fmt.Errorf("posres: %w", err)
		}
		ret[i] = v
	}
	return ret, nil
}

func (a *app) stdin(cmd *cobra.Command) *bufio.Reader {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	return a.in
}

// readLine reads the answer to a question from the standard input.
func (a *app) readLine(cmd *cobra.Command) (string, error) {
	s, err := a.stdin(cmd).ReadString('\n')
	if err != nil && s == "" {
		return "", fmt.Errorf("no answer: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (a *app) resolver(cmd *cobra.Command) (*include.Resolver, error) {
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	logger.Debug("library", "dirs", lib)
	return include.NewResolver(lib, a.chooser(cmd)), nil
}

// checkInputs returns an error if any of the files doesn't exist.
func checkInputs(names ...string) error {
	if len(names) == 0 {
		return fmt.Errorf("no input topology given")
	}
	for _, n := range names {
		if _, err := os.Stat(n); err != nil {
			return fmt.Errorf("input topology %s: %w", n, err)
		}
	}
	return nil
}

// checkOutput asks before overwriting output, unless
// the overwrite flag was given.
func (a *app) checkOutput(cmd *cobra.Command, output string) error {
	if output == "" {
		return fmt.Errorf("no output file given")
	}
	if _, err := os.Stat(output); err != nil || a.overwrite {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), questionStyle.Render(fmt.Sprintf("%s exists. Overwrite? [y/N]", output))+" ")
	ans, err := a.readLine(cmd)
	if err != nil {
		return err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return nil
	}
	return fmt.Errorf("%s exists, not overwritten", output)
}
