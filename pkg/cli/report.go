package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dvega/portreport/pkg/defaults"
	"github.com/dvega/portreport/pkg/logging"
	"github.com/dvega/portreport/pkg/portainer"
	"github.com/dvega/portreport/pkg/reporter"
	"github.com/dvega/portreport/pkg/serializer"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "report",
		EnableShellCompletion: true,
		Usage:                 "Collect the Portainer fleet and write the export artifact",
		Description: `Authenticate against a Portainer instance, enumerate every endpoint it
manages, and collect per endpoint:
  - swarm services (flattened with env var keys, configs, mounts)
  - secret names
  - cluster nodes (deduplicated by hostname across the whole fleet)
  - containers with one runtime statistics snapshot each

Endpoints are collected concurrently, partitioned by endpoint group. A failed
fetch never aborts the run; failures are listed on the Request Errors sheet.

# Examples

Using environment variables:
  export PORTAINER_HOST=portainer.example.com
  export PORTAINER_USER=admin
  export PORTAINER_PASSWORD=...
  portreport report

Explicit flags, JSON to stdout:
  portreport report --url portainer.example.com --username admin \
    --password ... --format json --output -`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Portainer address (scheme optional, defaults to https)",
				Sources:  cli.EnvVars("PORTAINER_HOST"),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "username",
				Usage:    "Portainer username",
				Sources:  cli.EnvVars("PORTAINER_USER"),
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Usage:    "Portainer password",
				Sources:  cli.EnvVars("PORTAINER_PASSWORD"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: portainer_data_<slug>.<format>)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Output format: %v", serializer.SupportedFormats()),
				Value:   string(serializer.FormatXLSX),
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Width of the group fan-out pool",
				Value: defaults.Workers,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: defaults.RequestTimeout,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Client-side request rate in requests/second (0 = unlimited)",
				Value: defaults.RateLimit,
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification",
			},
		},
		Action: runReport,
	}
}

func runReport(ctx context.Context, cmd *cli.Command) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))

	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q, valid formats are: %v",
			outFormat, serializer.SupportedFormats())
	}

	output := outputPath(cmd.String("output"), cmd.String("url"), outFormat)
	s, err := serializer.NewFileWriter(outFormat, output)
	if err != nil {
		return err
	}

	start := time.Now()

	client, err := portainer.New(ctx, portainer.Config{
		BaseURL:            cmd.String("url"),
		Username:           cmd.String("username"),
		Password:           cmd.String("password"),
		Timeout:            cmd.Duration("timeout"),
		RateLimit:          cmd.Float("rate-limit"),
		InsecureSkipVerify: cmd.Bool("insecure"),
	})
	if err != nil {
		return err
	}

	r := &reporter.Reporter{
		Client:     client,
		Workers:    int(cmd.Int("workers")),
		Version:    version,
		Serializer: s,
	}

	rep, err := r.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("collection complete",
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"endpoints", len(rep.Endpoints()),
		"services", len(rep.Services()),
		"secrets", len(rep.Secrets()),
		"nodes", len(rep.Nodes()),
		"container_stats", len(rep.ContainerStats()),
		"request_errors", len(rep.RequestErrors()))

	if output != "" {
		fmt.Printf("Data and request errors exported to %q\n", output)
	}
	return nil
}
