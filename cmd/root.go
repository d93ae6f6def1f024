package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/myshell/core"
	"github.com/josephlewis42/myshell/core/bookmark"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/shell"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	debug    bool
	colorFlg string
	maxLine  int
)

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Flags win over the file.
	flags := cmd.Flags()
	if flags.Changed("debug") {
		configuration.Debug = debug
	}
	if flags.Changed("color") {
		configuration.Color = colorFlg
	}
	if flags.Changed("max-line") {
		configuration.MaxLine = maxLine
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "myshell",
	Short: "A small job-control shell",
	Long: `Runs commands read from the terminal, one per line, in the foreground or,
when ended with &, in the background. Ctrl-Z kills the foreground job.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if err := os.MkdirAll(cfgPath, 0700); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if !cfg.Debug {
			log.SetOutput(io.Discard)
		}

		bookmarks, err := bookmark.Open(cfg.Fs(), cfg.BookmarksFile)
		if err != nil {
			return err
		}

		eventLog, err := cfg.OpenEventLog()
		if err != nil {
			return err
		}
		defer eventLog.Close()
		events := logger.NewJSONLinesRecorder(eventLog).NewSession()
		log.Printf("session %s", events.SessionID())

		var sh *core.Shell
		source, closeSource, err := openLineSource(cmd, func() {
			if sh != nil {
				sh.Interrupt()
			}
		})
		if err != nil {
			return err
		}
		defer closeSource()

		sh = core.NewShellFromConfig(cfg, core.Options{
			Source:    source,
			Stdout:    cmd.OutOrStdout(),
			Stderr:    cmd.ErrOrStderr(),
			Bookmarks: bookmarks,
			Events:    events,
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		sh.HandleSignals(ctx)

		if status := sh.Run(); status != 0 {
			return fmt.Errorf("shell exited with status %d", status)
		}
		return nil
	},
}

// openLineSource uses line editing on terminals and plain buffered reads
// everywhere else.
func openLineSource(cmd *cobra.Command, onSuspend func()) (shell.LineSource, func(), error) {
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		return shell.NewBufferedSource(cmd.InOrStdin(), cmd.OutOrStdout()), func() {}, nil
	}

	rl, err := shell.NewReadlineSource(onSuspend)
	if err != nil {
		return nil, nil, err
	}
	return rl, func() {
		if err := rl.Close(); err != nil {
			log.Printf("close readline: %v", err)
		}
	}, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config directory")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "echo parsed arguments and log diagnostics")
	rootCmd.Flags().StringVar(&colorFlg, "color", config.ColorAuto, "color warnings: always, auto or never")
	rootCmd.Flags().IntVar(&maxLine, "max-line", 0, "maximum bytes read per line")
}
