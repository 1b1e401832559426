package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"lunchcal/internal/calendar"
	"lunchcal/internal/config"
	appLog "lunchcal/internal/log"
	"lunchcal/internal/menu"
	"lunchcal/internal/menuapi"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	out        string
	stdout     bool
	verbose    bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI -out overrides the configured output path if provided.
	if flags.out != "" {
		conf.Output = flags.out
	}

	// Root context with cancellation on SIGINT/SIGTERM so an in-flight
	// fetch can be aborted.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, aborting", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx, conf, flags.stdout); err != nil {
		appLog.Error("run failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config, toStdout bool) error {
	appLog.Info("fetching lunch menus", "org_id", conf.OrgID, "menu_id", conf.MenuID)

	client := menuapi.NewClient(conf.BaseURL, conf.OrgID, conf.MenuID,
		time.Duration(conf.HTTPTimeoutSeconds)*time.Second)

	// Month discovery is fatal on failure; without it there is nothing to do.
	months, err := client.PublishedMonths(ctx)
	if err != nil {
		return err
	}
	appLog.Info("published months", "months", strings.Join(months, ","))

	if len(months) == 0 {
		appLog.Warn("no published months found")
		return nil
	}

	// Fetch and parse each month. A failing month is logged and skipped;
	// the rest of the run continues.
	all := make(map[string]menu.DayMenu)
	for _, monthStr := range months {
		year, month, err := splitMonth(monthStr)
		if err != nil {
			appLog.Warn("skipping month", "month", monthStr, "err", err)
			continue
		}

		overrides, err := client.MonthOverrides(ctx, year, month)
		if err != nil {
			appLog.Warn("skipping month", "month", monthStr, "err", err)
			continue
		}

		parsed := menu.ParseMonth(overrides)
		menu.Merge(all, parsed)
		appLog.Info("month parsed", "year", year, "month", fmt.Sprintf("%02d", month), "days", len(parsed))
	}

	menuDays := 0
	for _, rec := range all {
		if !rec.IsDayOff && rec.Entree != "" {
			menuDays++
		}
	}
	appLog.Info("total days with lunch menus", "count", menuDays)

	cal := calendar.Build(all, calendar.Meta{
		Name:     conf.CalendarName,
		Timezone: conf.Timezone,
	}, time.Now())

	if toStdout {
		fmt.Print(cal.Serialize())
	} else if err := calendar.WriteFile(cal, conf.Output); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	} else {
		appLog.Info("calendar saved", "path", conf.Output)
	}

	appLog.Info("total events", "count", calendar.EventCount(cal))
	return nil
}

// splitMonth parses a published-month string ("YYYY-MM" or "YYYY-MM-DD")
// into its year and month.
func splitMonth(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("malformed month string %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed year in %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed month in %q", s)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in %q", s)
	}
	return year, month, nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (optional; built-in defaults are used when empty)")
	flag.StringVar(&cfg.out, "out", "", "Output .ics path (overrides config if set)")
	flag.BoolVar(&cfg.stdout, "stdout", false, "Write the calendar to stdout instead of a file")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
