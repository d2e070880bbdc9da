package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/liteshell/core"
	"github.com/josephlewis42/liteshell/core/config"
	"github.com/josephlewis42/liteshell/core/logger"
	"github.com/josephlewis42/liteshell/core/vos"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	colorMode = newEnumValue(config.ColorAuto, config.ColorAlways, config.ColorAuto, config.ColorNever)

	// exit ends the process with the shell's status.
	exit = os.Exit
)

// loadConfig loads the configuration from --config or falls back to the
// built-in defaults.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(afero.NewOsFs(), cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "liteshell [DIR...]",
	Short: "A minimal interactive command interpreter.",
	Long: `Reads command lines, runs each one as a child process and remembers
which process serviced every command.

Each DIR is appended to the search path before the first prompt.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		status, err := runShell(cmd, args)
		if err != nil {
			return err
		}

		exit(status)
		return nil
	},
}

func runShell(cmd *cobra.Command, dirs []string) (int, error) {
	configuration, err := loadConfig()
	if err != nil {
		return 1, err
	}
	if cmd.Flags().Changed("color") {
		configuration.Color = colorMode.String()
	}

	appLog := log.New(cmd.ErrOrStderr(), "liteshell: ", 0)

	events := logger.NewNopLogger()
	if configuration.EventLogEnabled() {
		fd, err := configuration.OpenEventLog()
		if err != nil {
			return 1, err
		}
		defer fd.Close()
		events = logger.NewJsonLinesLogRecorder(fd)
	}
	session := events.NewSession()

	hostOS := vos.NewHostOS()
	if _, err := core.AugmentPath(hostOS, configuration.PathVariable, configuration.PathSeparator, dirs); err != nil {
		appLog.Println(err)
		session.Record(&logger.LogEntry{Type: logger.EventConfigError, Error: err.Error()})
	}

	files := vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())

	input, err := newLineReader(configuration, files)
	if err != nil {
		return 1, err
	}
	defer input.Close()

	shell, err := core.NewShell(hostOS, files, input, configuration)
	if err != nil {
		return 1, err
	}
	shell.Events = session
	shell.Color.IsTerminal = func() bool {
		return isTerminal(files.Stderr())
	}

	return shell.Run(), nil
}

// newLineReader uses line editing if it's enabled and input is a terminal.
func newLineReader(configuration *config.Configuration, files vos.VIO) (core.LineReader, error) {
	if configuration.LineEditing && isTerminal(files.Stdin()) {
		return core.NewReadlineReader(files.Stdin(), files.Stdout(), files.Stderr(), configuration.Prompt)
	}
	return core.NewPlainReader(files.Stdin(), files.Stdout(), configuration.Prompt), nil
}

func isTerminal(stream interface{}) bool {
	fd, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(fd.Fd()) || isatty.IsCygwinTerminal(fd.Fd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration directory, the built-in defaults are used if unset")
	rootCmd.Flags().Var(colorMode, "color", fmt.Sprintf("colorize errors (%s)", colorMode.Allowed()))
}
