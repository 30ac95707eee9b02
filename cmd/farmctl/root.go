package main

import (
	"bufio"
	"fmt"
	"io"

	"farmadmin/internal/client"
	"farmadmin/internal/config"
	"farmadmin/internal/schemas"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app is the state shared by every command of one invocation.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool
	yes        bool

	v      *viper.Viper
	cfg    *config.ClientConfig
	client *client.Client
	log    *zap.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: bufio.NewReader(in), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "farmctl",
		Short: "Farm administration console",
		Long: `farmctl manages farms, seasons, assets, harvests and gari processing
through the farmadmin API.

Log in once with "farmctl login --save"; the token is kept in ~/.farmctl.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.farmctl.yaml)")
	flags.String("server", "", "API base URL, e.g. http://localhost:8080/api/v1")
	flags.String("token", "", "bearer token")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests")
	flags.BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmations")

	root.AddCommand(
		a.loginCmd(),
		a.whoamiCmd(),
		a.entitiesCmd(),
		a.kpiCmd(),
		a.inventoryCmd(),
	)
	for _, s := range schemas.All() {
		cmd := a.entityCmd(s)
		if s.Path == "/roles" {
			cmd.AddCommand(a.grantCmd(), a.revokeCmd())
		}
		root.AddCommand(cmd)
	}
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := zapcore.WarnLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(a.errOut),
		level,
	)
	a.log = zap.New(core)

	a.v = config.NewClientViper(a.configPath)
	for _, name := range []string{"server", "token"} {
		if err := a.v.BindPFlag(name, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg, err := config.LoadClient(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.client = client.New(cfg.Server, cfg.Token,
		client.WithLogger(a.log),
		client.OnUnauthorized(func() {
			if cfg.Token != "" {
				fmt.Fprintln(a.errOut, `Session expired. Run "farmctl login".`)
			}
		}),
	)
	return nil
}
