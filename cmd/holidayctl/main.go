package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonhours/pkg/client"
	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

const EnvBaseURL = "HOLIDAY_HOURS_URL"

func main() {
	baseURL := flag.String("url", envOr(EnvBaseURL, "http://localhost:8080"), "holiday-hours service base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Usage = usage
	flag.Parse()

	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.TEXT,
		Output:  os.Stderr,
		Service: "holidayctl",
	})

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.NewHolidayClient(*baseURL)
	out, err := run(ctx, c, args, os.Stdin)
	if err != nil {
		log.Fatal("Command failed", "command", args[0], "error", err)
	}
	if out != nil {
		if err := printJSON(os.Stdout, out); err != nil {
			log.Fatal("Failed to write output", "error", err)
		}
	}
}

// run executes one subcommand and returns the value to print.
func run(ctx context.Context, c *client.HolidayClient, args []string, stdin io.Reader) (any, error) {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		limit := fs.Int("limit", 100, "page size")
		offset := fs.Int64("offset", 0, "page offset")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		return c.GetAll(ctx, *limit, *offset)

	case "get":
		id, err := requireID(cmd, rest)
		if err != nil {
			return nil, err
		}
		return c.GetByID(ctx, id)

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		file := fs.String("f", "-", "JSON file with the schedule, - for stdin")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		hs := model.NewHolidaySchedule()
		if err := readJSON(*file, stdin, hs); err != nil {
			return nil, err
		}
		return c.Create(ctx, hs, uuid.NewString())

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		file := fs.String("f", "-", "JSON file with the fields to change, - for stdin")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		id, err := requireID(cmd, fs.Args())
		if err != nil {
			return nil, err
		}
		var updates model.HolidayScheduleUpdate
		if err := readJSON(*file, stdin, &updates); err != nil {
			return nil, err
		}
		return c.Update(ctx, id, &updates)

	case "delete":
		id, err := requireID(cmd, rest)
		if err != nil {
			return nil, err
		}
		return nil, c.Delete(ctx, id)

	case "activate":
		id, err := requireID(cmd, rest)
		if err != nil {
			return nil, err
		}
		active, err := c.Activate(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"active": active}, nil

	case "deactivate-all":
		n, err := c.DeactivateAll(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"deactivated": n}, nil

	case "legacy":
		return runLegacy(ctx, c, rest, stdin)

	case "footer":
		fs := flag.NewFlagSet("footer", flag.ContinueOnError)
		date := fs.String("date", "", "resolve for this YYYY-MM-DD instead of today")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		return c.Footer(ctx, *date)

	case "wait":
		fs := flag.NewFlagSet("wait", flag.ContinueOnError)
		maxWait := fs.Duration("max", 30*time.Second, "give up after this long")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if err := c.WaitForHealthy(ctx, *maxWait); err != nil {
			return nil, err
		}
		return map[string]any{"healthy": true}, nil
	}

	return nil, fmt.Errorf("unknown command %q", cmd)
}

func runLegacy(ctx context.Context, c *client.HolidayClient, args []string, stdin io.Reader) (any, error) {
	if len(args) == 0 || args[0] == "get" {
		return c.GetLegacy(ctx)
	}
	if args[0] != "set" {
		return nil, fmt.Errorf("unknown legacy command %q", args[0])
	}

	fs := flag.NewFlagSet("legacy set", flag.ContinueOnError)
	file := fs.String("f", "-", "JSON file with the legacy schedule, - for stdin")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	var ls model.LegacySchedule
	if err := readJSON(*file, stdin, &ls); err != nil {
		return nil, err
	}
	return c.SaveLegacy(ctx, &ls)
}

func requireID(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%s needs exactly one schedule id", cmd)
	}
	return strings.TrimSpace(args[0]), nil
}

func readJSON(path string, stdin io.Reader, into any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: holidayctl [-url URL] [-timeout D] <command> [args]

Commands:
  list [-limit N] [-offset N]     list holiday schedules
  get <id>                        show one schedule
  create [-f file]                create a schedule from JSON
  update [-f file] <id>           patch a schedule from JSON
  delete <id>                     delete a schedule
  activate <id>                   make <id> the only active schedule
  deactivate-all                  deactivate every schedule
  legacy [get]                    show the legacy date-window schedule
  legacy set [-f file]            replace the legacy schedule
  footer [-date YYYY-MM-DD]       show the resolved footer hours
  wait [-max D]                   block until the service reports healthy
`)
}
