package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/robepatch/internal/locate"
	"github.com/provide-io/robepatch/internal/picker"
	"github.com/provide-io/robepatch/internal/procscan"
	"github.com/provide-io/robepatch/internal/prompt"
	"github.com/provide-io/robepatch/pkg"
	"github.com/provide-io/robepatch/pkg/logging"
	"github.com/provide-io/robepatch/pkg/profile"
)

// errVersionShown stops a command after --version has been printed.
var errVersionShown = errors.New("version shown")

type cli struct {
	profilePath string
	steamPath   string
	targetPath  string
	logLevel    string
	version     bool

	yes    bool
	verify bool

	logger hclog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "robepatch",
		Short:         "Switch the Journey robe color tier",
		Long:          `Read and change the robe color tier stored in Journey.exe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.version {
				printVersion(cmd.OutOrStdout())
				return errVersionShown
			}
			c.logger = logging.NewLogger("robepatch", c.logLevel, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&c.profilePath, "profile", "p", "", "Path to a profile JSON file (defaults to the built-in Journey profile)")
	root.PersistentFlags().StringVar(&c.steamPath, "steam-path", "", "Steam installation directory (defaults to $"+locate.SteamPathEnv+", the registry, then standard locations)")
	root.PersistentFlags().StringVarP(&c.targetPath, "target", "t", "", "Path to the executable to patch, bypassing the Steam lookup")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&c.version, "version", "V", false, "Print the version and exit")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the value stored at the primary offset",
		Args:  cobra.NoArgs,
		RunE:  c.runStatus,
	}

	set := &cobra.Command{
		Use:   "set <choice>",
		Short: "Write a choice to every offset",
		Long:  `Write a choice, given by label ("Tier 3") or raw value ("2"), to every offset of the target.`,
		Args:  cobra.ExactArgs(1),
		RunE:  c.runSet,
	}
	set.Flags().BoolVarP(&c.yes, "yes", "y", false, "Skip the confirmation prompt")
	set.Flags().BoolVar(&c.verify, "verify", false, "Read back every offset after writing")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check that every offset holds the same value",
		Args:  cobra.NoArgs,
		RunE:  c.runVerify,
	}

	pick := &cobra.Command{
		Use:   "pick",
		Short: "Choose a value interactively",
		Args:  cobra.NoArgs,
		RunE:  c.runPick,
	}
	pick.Flags().BoolVar(&c.verify, "verify", false, "Read back every offset after writing")

	loc := &cobra.Command{
		Use:   "locate",
		Short: "Print the resolved Steam root and target path",
		Args:  cobra.NoArgs,
		RunE:  c.runLocate,
	}

	prof := &cobra.Command{
		Use:   "profile",
		Short: "Print the active profile as JSON",
		Args:  cobra.NoArgs,
		RunE:  c.runProfile,
	}

	root.AddCommand(status, set, verify, pick, loc, prof)
	return root
}

func (c *cli) open() (*pkg.Session, error) {
	return pkg.Open(pkg.Options{
		ProfilePath: c.profilePath,
		SteamPath:   c.steamPath,
		TargetPath:  c.targetPath,
		Logger:      c.logger,
	})
}

func (c *cli) runStatus(cmd *cobra.Command, args []string) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	st, err := s.Status()
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func (c *cli) runSet(cmd *cobra.Command, args []string) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	choice, err := s.Profile.Resolve(args[0])
	if err != nil {
		return err
	}

	if before, err := s.Status(); err == nil {
		c.logger.Debug("Current value", "raw", before.Raw, "label", before.Label())
	}
	c.warnIfRunning(cmd.Context(), s.Profile)

	if !c.yes {
		if !interactive(cmd.InOrStdin()) {
			return fmt.Errorf("%w: stdin is not a terminal, pass --yes to write without a prompt", pkg.ErrNotConfirmed)
		}
		ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Do you want to set %s?", choice.Label))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	st, err := s.Set(choice, c.verify)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func (c *cli) runVerify(cmd *cobra.Command, args []string) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	reports, err := s.Verify()
	out := cmd.OutOrStdout()
	for _, r := range reports {
		label := "none"
		if r.Selected {
			label = r.Choice.Label
		}
		fmt.Fprintf(out, "%-10s %d (%s)\n", r.Offset, r.Raw, label)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "All offsets consistent.")
	return nil
}

func (c *cli) runPick(cmd *cobra.Command, args []string) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	c.warnIfRunning(cmd.Context(), s.Profile)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	// Log lines would be drawn over the screen; errors show on its status line.
	c.logger.SetLevel(hclog.Off)

	read := func() (uint32, error) {
		st, err := s.Status()
		return st.Raw, err
	}
	apply := func(choice profile.Choice) error {
		_, err := s.Set(choice, c.verify)
		return err
	}
	p := picker.New(screen, s.Profile, read, apply, c.logger)
	return p.Run()
}

func (c *cli) runLocate(cmd *cobra.Command, args []string) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if s.SteamRoot != "" {
		fmt.Fprintf(out, "Steam:  %s\n", s.SteamRoot)
	}
	fmt.Fprintf(out, "Target: %s\n", s.Path())
	return nil
}

func (c *cli) runProfile(cmd *cobra.Command, args []string) error {
	prof, err := pkg.LoadProfile(c.profilePath)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// warnIfRunning logs when the game is running. The write is still attempted;
// a locked file surfaces as an open error.
func (c *cli) warnIfRunning(ctx context.Context, prof *profile.Profile) {
	if ctx == nil {
		ctx = context.Background()
	}
	if procscan.Running(ctx, prof.ProcessName, c.logger) {
		c.logger.Warn("⚠️ Game is running, the write may fail or be undone", "process", prof.ProcessName)
	}
}

func printStatus(w io.Writer, st pkg.Status) {
	fmt.Fprintf(w, "Target:  %s\n", st.Path)
	fmt.Fprintf(w, "Current: %s (raw %d)\n", st.Label(), st.Raw)
}

// interactive treats any reader other than a non-terminal *os.File as able to
// answer a prompt.
func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	return prompt.IsInteractive(f)
}
