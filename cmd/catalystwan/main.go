// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"go.githedgehog.com/catalystwan/pkg/convert"
	"go.githedgehog.com/catalystwan/pkg/ctl"
	"go.githedgehog.com/catalystwan/pkg/manager"
	"go.githedgehog.com/catalystwan/pkg/manager/config"
	"go.githedgehog.com/catalystwan/pkg/util/logutil"
	"go.githedgehog.com/catalystwan/pkg/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var verbose bool
	verboseFlag := &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"v"},
		Usage:       "verbose output (includes debug)",
		Destination: &verbose,
	}

	var logFile string
	logFileFlag := &cli.StringFlag{
		Name:        "log-file",
		Usage:       "additionally write debug logs to the rotated file",
		EnvVars:     []string{"CATALYSTWAN_LOG_FILE"},
		Destination: &logFile,
	}

	var logCloser interface{ Close() error }
	setupLogger := func(_ *cli.Context) error {
		logCloser = logutil.Setup(logutil.Options{Verbose: verbose, LogFile: logFile})

		return nil
	}

	var configPath string
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "manager connection config file",
		EnvVars:     []string{"CATALYSTWAN_CONFIG"},
		Destination: &configPath,
	}

	var url, username, password string
	var insecure bool
	connFlags := []cli.Flag{
		configFlag,
		&cli.StringFlag{
			Name:        "url",
			Usage:       "manager url, e.g. https://manager.example.com:8443",
			EnvVars:     []string{"CATALYSTWAN_URL"},
			Destination: &url,
		},
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "manager username",
			EnvVars:     []string{"CATALYSTWAN_USERNAME"},
			Destination: &username,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "manager password",
			EnvVars:     []string{"CATALYSTWAN_PASSWORD"},
			Destination: &password,
		},
		&cli.BoolFlag{
			Name:        "insecure",
			Aliases:     []string{"k"},
			Usage:       "skip manager tls certificate verification",
			Destination: &insecure,
		},
	}

	loadConfig := func() (*config.Manager, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "loading config")
		}

		if url != "" {
			cfg.URL = url
		}
		if username != "" {
			cfg.Username = username
		}
		if password != "" {
			cfg.Password = password
		}
		if insecure {
			cfg.InsecureSkipVerify = true
		}

		if err := cfg.Finalize(); err != nil {
			return nil, err //nolint:wrapcheck
		}
		if err := cfg.Validate(); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return cfg, nil
	}

	connect := func(ctx context.Context) (*manager.Session, *config.Manager, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, nil, cli.Exit(err.Error(), 1)
		}

		session, err := manager.NewSession(ctx, cfg.SessionOptions(nil))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "connecting to manager")
		}

		return session, cfg, nil
	}

	outputTypes := []string{}
	for _, t := range ctl.OutputTypes {
		outputTypes = append(outputTypes, string(t))
	}

	var output string
	outputFlag := &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "output format, one of " + strings.Join(outputTypes, ", "),
		Value:       "text",
		Destination: &output,
	}
	args := func() ctl.Args {
		return ctl.Args{Output: ctl.OutputType(output)}
	}

	withConn := func(flags ...cli.Flag) []cli.Flag {
		return append(append([]cli.Flag{verboseFlag, logFileFlag, outputFlag}, connFlags...), flags...)
	}

	templateTypes := []string{}
	for _, t := range convert.SupportedTemplateTypes() {
		templateTypes = append(templateTypes, string(t))
	}

	cli.VersionFlag.(*cli.BoolFlag).Aliases = []string{"V"}
	app := &cli.App{
		Name:                   "catalystwan",
		Usage:                  "Catalyst SD-WAN Manager templates to feature profiles migration tool",
		Version:                version.Version,
		Suggest:                true,
		UseShortOptionHandling: true,
		EnableBashCompletion:   true,
		Flags: []cli.Flag{
			verboseFlag,
			logFileFlag,
		},
		After: func(_ *cli.Context) error {
			if logCloser != nil {
				return errors.Wrapf(logCloser.Close(), "closing log file")
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert feature templates from the file into parcels without connecting to the manager",
				ArgsUsage: "<templates.json|yaml>",
				Flags: []cli.Flag{
					verboseFlag,
					logFileFlag,
					outputFlag,
					&cli.IntFlag{
						Name:  "vpn",
						Usage: "parent vpn id of the templates, e.g. 0 for the transport interfaces (-1 for unknown)",
						Value: -1,
					},
				},
				Before: setupLogger,
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("Exactly one templates file is required", 1)
					}

					in := ctl.ConvertIn{Path: cCtx.Args().First()}
					if vpn := cCtx.Int("vpn"); vpn >= 0 {
						in.ParentVPN = &vpn
					}

					return errors.Wrapf(ctl.Run(ctx, ctl.Convert, args(), in, os.Stdout), "failed to convert")
				},
			},
			{
				Name:  "templates",
				Usage: "Feature and device templates commands",
				Subcommands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List feature and device templates",
						Flags: withConn(
							&cli.StringFlag{
								Name:  "type",
								Usage: "feature template type, e.g. " + strings.Join(templateTypes[:min(3, len(templateTypes))], ", "),
							},
							&cli.BoolFlag{
								Name:  "skip-default",
								Usage: "hide factory default templates",
							},
						),
						Before: setupLogger,
						Action: func(cCtx *cli.Context) error {
							session, _, err := connect(ctx)
							if err != nil {
								return err
							}

							return errors.Wrapf(ctl.Run(ctx, ctl.Templates(session), args(), ctl.TemplatesIn{
								Type:        cCtx.String("type"),
								SkipDefault: cCtx.Bool("skip-default"),
							}, os.Stdout), "failed to list templates")
						},
					},
					{
						Name:  "types",
						Usage: "List convertible feature template types",
						Flags: []cli.Flag{
							verboseFlag,
						},
						Before: setupLogger,
						Action: func(_ *cli.Context) error {
							_, err := os.Stdout.WriteString(strings.Join(templateTypes, "\n") + "\n")

							return errors.Wrapf(err, "writing output")
						},
					},
				},
			},
			{
				Name:  "migrate",
				Usage: "Migrate device templates into feature profiles",
				Flags: withConn(
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "only collect and convert templates, don't create anything",
					},
					&cli.StringFlag{
						Name:  "profile-prefix",
						Usage: "prefix for the created feature profile names (overrides config)",
					},
				),
				Before: setupLogger,
				Action: func(cCtx *cli.Context) error {
					session, cfg, err := connect(ctx)
					if err != nil {
						return err
					}

					prefix := cfg.ProfilePrefix
					if cCtx.IsSet("profile-prefix") {
						prefix = cCtx.String("profile-prefix")
					}

					return errors.Wrapf(ctl.Run(ctx, ctl.Migrate(session), args(), ctl.MigrateIn{
						DryRun:         cCtx.Bool("dry-run"),
						ProfilePrefix:  prefix,
						MaxConcurrency: cfg.MaxConcurrency,
					}, os.Stdout), "failed to migrate")
				},
			},
			{
				Name:  "cli",
				Usage: "CLI templates commands",
				Subcommands: []*cli.Command{
					{
						Name:  "compare",
						Usage: "Compare CLI template with the running config",
						Flags: withConn(
							&cli.StringFlag{
								Name:  "template",
								Usage: "cli template file",
							},
							&cli.StringFlag{
								Name:  "device-template",
								Usage: "cli device template id on the manager",
							},
							&cli.StringFlag{
								Name:     "running",
								Usage:    "running config file",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "context",
								Usage: "number of context lines",
								Value: 3,
							},
						),
						Before: setupLogger,
						Action: func(cCtx *cli.Context) error {
							var getter ctl.DeviceTemplateGetter
							if cCtx.String("device-template") != "" {
								session, _, err := connect(ctx)
								if err != nil {
									return err
								}
								getter = session
							}

							return errors.Wrapf(ctl.Run(ctx, ctl.Compare(getter), args(), ctl.CompareIn{
								TemplatePath:     cCtx.String("template"),
								DeviceTemplateID: cCtx.String("device-template"),
								RunningPath:      cCtx.String("running"),
								Context:          cCtx.Int("context"),
							}, os.Stdout), "failed to compare")
						},
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Run the conversion HTTP API",
				Flags: []cli.Flag{
					verboseFlag,
					logFileFlag,
					&cli.StringFlag{
						Name:  "listen",
						Usage: "address to listen on",
						Value: ctl.DefaultListen,
					},
				},
				Before: setupLogger,
				Action: func(cCtx *cli.Context) error {
					reg := prometheus.NewRegistry()
					reg.MustRegister(
						collectors.NewGoCollector(),
						collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
					)

					return errors.Wrapf(ctl.Serve(ctx, cCtx.String("listen"), reg), "failed to serve")
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed", "err", err.Error())
		os.Exit(1) //nolint:gocritic
	}
}
