// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghkey/internal/config"
	"github.com/xkilldash9x/ghkey/internal/observability"
)

const envPrefix = "GHKEY"

type configKeyType struct{}

var configKey = configKeyType{}

// reportedError marks a failure the reporter has already shown to the
// operator, so Execute does not print it a second time.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Execute runs the root command and returns its error. Unreported errors
// are printed to the command's error stream.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		printUnreported(root.ErrOrStderr(), err)
	}
	return err
}

func printUnreported(w io.Writer, err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "ghkey",
		Short: "Sign into GitHub in a browser and add an SSH public key to the account.",
		Long: `ghkey drives a real browser through the GitHub sign-in form and the SSH key
settings page, then adds the given public key to the account.

Login and password are prompted for when not given as flags. The password
prompt does not echo.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if err := initializeConfig(v, cfgFile); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "ghkey"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "ghkey"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting ghkey", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok := cmd.Context().Value(configKey).(*config.Config)
			if !ok {
				return errors.New("configuration missing from command context")
			}
			opts := runOptions{
				login:    v.GetString("user"),
				password: v.GetString("password"),
			}
			return runWorkflow(cmd, cfg, opts)
		},
	}

	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := cmd.Flags()
	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.StringP("user", "u", "", "account login (prompted for when empty)")
	flags.StringP("password", "p", "", "account password (prompted for when empty)")
	flags.StringP("key", "k", "", "path of the public key to add (default ~/.ssh/id_rsa.pub)")
	flags.Bool("headless", true, "run the browser without a window")

	return cmd
}

// flagBindings maps viper keys to the flags that override them.
var flagBindings = map[string]string{
	"user":             "user",
	"password":         "password",
	"key.path":         "key",
	"browser.headless": "headless",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s to %s: %w", name, key, err)
		}
	}
	return nil
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
