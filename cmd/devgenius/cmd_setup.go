package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/llm"
)

// providerReadiness summarizes whether a configured provider can be used.
func providerReadiness(name string, p *config.ProviderConfig) string {
	switch {
	case !p.Enabled:
		return "disabled"
	case name == "ollama" || p.APIKey != "":
		return "ready"
	default:
		return "needs API key"
	}
}

// check is one line of `devgenius doctor` output.
type check struct {
	label  string
	ok     bool
	detail string
	// required checks fail the overall verdict
	required bool
}

func cmdDoctor() error {
	fmt.Println("Checking DevGenius setup...")
	checks := doctorChecks()
	if !printChecks(os.Stdout, checks) {
		fmt.Println("\nSome checks failed. Fix the items marked ✗ above.")
		return nil
	}
	fmt.Println("\nAll checks passed ✓")
	return nil
}

func doctorChecks() []check {
	var checks []check

	dir, err := config.DevGeniusDir()
	switch {
	case err != nil:
		checks = append(checks, check{"directory", false, err.Error(), true})
	default:
		if _, statErr := os.Stat(dir); statErr != nil {
			checks = append(checks, check{"directory", false, "missing (run 'devgenius start')", true})
		} else {
			checks = append(checks, check{"directory", true, dir, true})
		}
	}

	cfg, err := config.LoadLocalConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		checks = append(checks, check{"config", false, err.Error(), true})
	} else {
		checks = append(checks, check{"config", true,
			fmt.Sprintf("advisor %s, preferences %s", cfg.Advisor.Backend, cfg.Preferences.Backend), true})
		checks = append(checks, providerChecks(cfg)...)
	}

	if isRunning() {
		checks = append(checks, check{"daemon", true, "running at " + daemonAddr, false})
	} else {
		checks = append(checks, check{"daemon", false, "not running (run 'devgenius start')", false})
	}
	return checks
}

// providerChecks probes enabled providers. A missing key only matters when
// the advisor depends on a remote model.
func providerChecks(cfg *config.LocalConfig) []check {
	var checks []check
	for _, name := range sortedProviderNames(cfg) {
		p := cfg.LLM.Providers[name]
		if !p.Enabled {
			continue
		}
		label := "provider " + name
		if name == "ollama" {
			if err := checkOllama(p.URL); err != nil {
				checks = append(checks, check{label, false, err.Error(), false})
			} else {
				checks = append(checks, check{label, true, "reachable, model " + p.Model, false})
			}
			continue
		}
		if p.APIKey == "" {
			checks = append(checks, check{label, false,
				fmt.Sprintf("no API key (run 'devgenius provider set-key %s')", name),
				cfg.Advisor.Backend == "remote"})
			continue
		}
		checks = append(checks, check{label, true, "key set, model " + p.Model, false})
	}
	return checks
}

// printChecks writes one line per check and reports whether every required
// check passed.
func printChecks(w io.Writer, checks []check) bool {
	passed := true
	for _, c := range checks {
		mark := "✓"
		if !c.ok {
			mark = "✗"
			if c.required {
				passed = false
			}
		}
		fmt.Fprintf(w, "  %s %-18s %s\n", mark, c.label, c.detail)
	}
	return passed
}

func checkOllama(baseURL string) error {
	if baseURL == "" {
		baseURL = llm.DefaultOllamaURL
	}
	c := &http.Client{Timeout: 3 * time.Second}
	resp, err := c.Get(strings.TrimSuffix(baseURL, "/") + "/api/tags")
	if err != nil {
		return fmt.Errorf("unreachable at %s", baseURL)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s answered %d", baseURL, resp.StatusCode)
	}
	return nil
}

func cmdConfig() error {
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dir, _ := config.DevGeniusDir()
	printConfig(os.Stdout, cfg, dir)
	return nil
}

func printConfig(w io.Writer, cfg *config.LocalConfig, dir string) {
	fmt.Fprintln(w, "daemon:")
	fmt.Fprintf(w, "  address: %s:%d\n", cfg.Daemon.Bind, cfg.Daemon.Port)
	fmt.Fprintf(w, "  log_level: %s\n", cfg.Daemon.LogLevel)
	fmt.Fprintf(w, "  advice_rate_limit: %d/min\n", cfg.Daemon.AdviceRateLimit)

	fmt.Fprintln(w, "advisor:")
	fmt.Fprintf(w, "  backend: %s\n", cfg.Advisor.Backend)
	fmt.Fprintf(w, "  default_mode: %s\n", cfg.Advisor.DefaultMode)

	fmt.Fprintln(w, "llm:")
	fmt.Fprintf(w, "  default_provider: %s\n", cfg.LLM.DefaultProvider)
	for _, name := range sortedProviderNames(cfg) {
		p := cfg.LLM.Providers[name]
		fmt.Fprintf(w, "  %s: %s (model %s)\n", name, providerReadiness(name, p), p.Model)
	}

	fmt.Fprintln(w, "preferences:")
	fmt.Fprintf(w, "  backend: %s\n", cfg.Preferences.Backend)
	fmt.Fprintln(w, "events:")
	fmt.Fprintf(w, "  enabled: %t\n", cfg.Events.Enabled)
	fmt.Fprintln(w, "challenges:")
	fmt.Fprintf(w, "  path: %s\n", cfg.ChallengesPath(dir))
	fmt.Fprintf(w, "  watch: %t\n", cfg.Challenges.Watch)

	fmt.Fprintf(w, "\nfile: %s\n", dir+string(os.PathSeparator)+"config.yaml")
}

func cmdProvider(args []string) error {
	if len(args) == 0 {
		fmt.Println(`Usage:
  devgenius provider list              Show providers and their readiness
  devgenius provider set-key <name>    Store an API key for a provider`)
		return nil
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch args[0] {
	case "list":
		printProviders(os.Stdout, cfg)
		return nil
	case "set-key":
		if len(args) < 2 {
			return errors.New("usage: devgenius provider set-key <name>")
		}
		return setProviderKey(cfg, args[1], os.Stdin)
	default:
		return fmt.Errorf("unknown provider command %q", args[0])
	}
}

func printProviders(w io.Writer, cfg *config.LocalConfig) {
	for _, name := range sortedProviderNames(cfg) {
		p := cfg.LLM.Providers[name]
		marker := ""
		if name == cfg.LLM.DefaultProvider {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\n  status: %s\n  model:  %s\n", name, marker, providerReadiness(name, p), p.Model)
		if p.URL != "" {
			fmt.Fprintf(w, "  url:    %s\n", p.URL)
		}
	}
}

func setProviderKey(cfg *config.LocalConfig, name string, in io.Reader) error {
	if _, ok := cfg.LLM.Providers[name]; !ok {
		return fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(sortedProviderNames(cfg), ", "))
	}
	if name == "ollama" {
		fmt.Println("Ollama runs locally and needs no API key.")
		return nil
	}

	fmt.Printf("%s API key: ", name)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return errors.New("empty API key")
	}

	if err := config.SaveSecrets(map[string]string{name: key}); err != nil {
		return err
	}
	fmt.Printf("\n✓ Saved key for %s. Restart the daemon to use it.\n", name)
	return nil
}

func sortedProviderNames(cfg *config.LocalConfig) []string {
	names := make([]string, 0, len(cfg.LLM.Providers))
	for name := range cfg.LLM.Providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
