// Package cli implements the worldatlas terminal client.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/worldatlas/worldatlas-go/internal/client"
	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/session"
	"golang.org/x/term"
)

const envPrefix = "WORLDATLAS"

// app carries the dependencies shared by every command.
type app struct {
	v   *viper.Viper
	in  io.Reader
	out io.Writer

	reader    *bufio.Reader
	session   *session.Session
	api       *client.Client
	countries *countries.Client
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand(os.Stdin, os.Stdout).Execute()
}

// NewRootCommand builds the command tree reading from in and writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out}

	root := &cobra.Command{
		Use:   "worldatlas",
		Short: "Browse countries and manage your WorldAtlas account",
		Long: `WorldAtlas terminal client.

Examples:
  worldatlas register --name Ada --email ada@example.com
  worldatlas login --email ada@example.com
  worldatlas countries list --region Europe --search land
  worldatlas countries show FRA`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("api-url", client.DefaultBaseURL, "WorldAtlas API base URL")
	flags.String("countries-url", countries.DefaultBaseURL, "restcountries API base URL")
	flags.String("session-file", "", "session storage file (default $XDG_CONFIG_HOME/worldatlas/storage.json)")

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.newRegisterCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newProfileCmd(),
		a.newCountriesCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	path := a.v.GetString("session-file")
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return fmt.Errorf("locating session file: %w", err)
		}
	}

	sess, err := session.New(session.NewFileStore(path))
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	a.session = sess
	a.api = client.New(a.v.GetString("api-url"), nil)
	a.countries = countries.NewClient(a.v.GetString("countries-url"), nil)
	a.reader = bufio.NewReader(a.in)
	return nil
}

// prompt asks for a line of input unless value is already set.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func (a *app) promptPassword(label string) (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(a.out, "%s: ", label)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.prompt(label, "")
}
