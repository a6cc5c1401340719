// Command emailcheck validates email addresses given as arguments or read line
// by line from the standard input.
//
// The exit code is 0 if every address is valid, 1 if at least one is invalid
// and 2 if the check could not be performed.
//
// With --audit, the addresses stored in the configured database table are
// checked instead.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"goyave.dev/emailvalidator"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/email"
	"goyave.dev/emailvalidator/slog"
	"goyave.dev/emailvalidator/util/errors"

	_ "goyave.dev/emailvalidator/database/dialect/bigquery"
	_ "goyave.dev/emailvalidator/database/dialect/clickhouse"
	_ "goyave.dev/emailvalidator/database/dialect/mssql"
	_ "goyave.dev/emailvalidator/database/dialect/mysql"
	_ "goyave.dev/emailvalidator/database/dialect/postgres"
	_ "goyave.dev/emailvalidator/database/dialect/sqlite"
)

// Exit codes
const (
	ExitValid   = 0
	ExitInvalid = 1
	ExitError   = 2
)

type flags struct {
	config    string
	domain    string
	language  string
	strict    bool
	strictSet bool
	audit     bool
	json      bool
}

type result struct {
	Address string `json:"address"`
	Result  string `json:"result"`
	Valid   bool   `json:"valid"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, candidates, err := parseFlags(args, stderr)
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return ExitValid
		}
		return ExitError
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return ExitError
	}

	logger := slog.New(slog.NewHandler(cfg.GetBool("app.debug"), stderr))
	checker, err := emailvalidator.New(emailvalidator.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Error(err)
		return ExitError
	}
	defer func() {
		if err := checker.CloseDB(); err != nil {
			logger.Error(err)
		}
	}()

	if f.audit {
		return runAudit(ctx, checker, f, stdout)
	}

	language := checker.Lang.DetectLanguage(f.language)
	encoder := json.NewEncoder(stdout)
	code := ExitValid
	err = forEachCandidate(candidates, stdin, func(candidate string) error {
		res := checker.Check(&candidate)
		if res != email.ResultValid {
			code = ExitInvalid
		}
		if f.json {
			return encoder.Encode(result{Address: candidate, Valid: res == email.ResultValid, Result: res.String()})
		}
		_, err := fmt.Fprintf(stdout, "%s\t%s\n", candidate, language.Get("address."+res.String()))
		return err
	})
	if err != nil {
		logger.Error(errors.New(err))
		return ExitError
	}
	return code
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, error) {
	f := &flags{}
	set := pflag.NewFlagSet("emailcheck", pflag.ContinueOnError)
	set.SetOutput(stderr)
	set.Usage = func() {
		fmt.Fprintln(stderr, "Usage: emailcheck [flags] [address...]")
		fmt.Fprintln(stderr, "Addresses are read line by line from the standard input if none is given.")
		set.PrintDefaults()
	}
	set.StringVarP(&f.config, "config", "c", "", "Configuration file (JSON, YAML or TOML)")
	set.StringVarP(&f.domain, "domain", "d", "", "Only accept addresses at this domain")
	set.StringVarP(&f.language, "lang", "l", os.Getenv("LANG"), "Language of the output")
	set.BoolVarP(&f.strict, "strict", "s", false, "Use the strict grammar (no trimming, no leading or trailing punctuation)")
	set.BoolVar(&f.audit, "audit", false, "Audit the addresses stored in the configured database table")
	set.BoolVar(&f.json, "json", false, "Print results as JSON")
	if err := set.Parse(args); err != nil {
		return nil, nil, err
	}

	f.strictSet = set.Changed("strict")
	return f, set.Args(), nil
}

func loadConfig(f *flags) (*config.Config, error) {
	var cfg *config.Config
	if f.config != "" {
		var err error
		cfg, err = config.LoadFrom(f.config)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.LoadDefault()
	}

	// Flags explicitly given take precedence over the configuration file.
	if f.strictSet {
		cfg.Set("email.strictMode", f.strict)
	}
	if f.domain != "" {
		if err := (email.Options{Domain: f.domain}).Validate(); err != nil {
			return nil, err
		}
		cfg.Set("email.domain", f.domain)
	}
	return cfg, nil
}

func forEachCandidate(candidates []string, stdin io.Reader, fn func(string) error) error {
	if len(candidates) > 0 {
		for _, c := range candidates {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runAudit(ctx context.Context, checker *emailvalidator.Checker, f *flags, stdout io.Writer) int {
	if !checker.HasDB() {
		checker.Logger.Error(errors.New("cannot audit: database is set to \"none\" in the config"))
		return ExitError
	}

	report, err := checker.Audit(ctx)
	if err != nil {
		checker.Logger.Error(err)
		return ExitError
	}

	if f.json {
		if err := json.NewEncoder(stdout).Encode(report); err != nil {
			checker.Logger.Error(errors.New(err))
			return ExitError
		}
	} else {
		language := checker.Lang.DetectLanguage(f.language)
		for _, finding := range report.Findings {
			address := "NULL"
			if finding.Address != nil {
				address = *finding.Address
			}
			fmt.Fprintf(stdout, "%v\t%s\t%s\n", finding.Key, address, finding.Reason)
		}
		fmt.Fprintln(stdout, report.Summary(language))
	}

	if report.Invalid > 0 {
		return ExitInvalid
	}
	return ExitValid
}
