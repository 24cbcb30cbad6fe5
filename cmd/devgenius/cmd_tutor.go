package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/devgenius/internal/domain"
)

// readCode reads code from the named file, or from stdin when the
// argument is missing or "-".
func readCode(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

// withClient opens a client for the duration of fn
func withClient(fn func(ctx context.Context, c tutorClient) error) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func cmdExplain(args []string) error {
	code, err := readCode(args, os.Stdin)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, c tutorClient) error {
		result, err := c.Explain(ctx, code)
		if err != nil {
			return err
		}
		fmt.Println(result.Explanation)
		fmt.Printf("\n(topic: %s, source: %s)\n", result.Topic, result.Source)
		return nil
	})
}

// parseChatArgs splits --dev/--normal flags from the message words
func parseChatArgs(args []string) (string, domain.Mode) {
	var mode domain.Mode
	var words []string
	for _, arg := range args {
		switch arg {
		case "--dev", "--developer":
			mode = domain.ModeDeveloper
		case "--normal", "--beginner":
			mode = domain.ModeStandard
		default:
			words = append(words, arg)
		}
	}
	return strings.Join(words, " "), mode
}

func cmdChat(args []string) error {
	message, mode := parseChatArgs(args)

	return withClient(func(ctx context.Context, c tutorClient) error {
		if message == "" {
			greeting, current, err := c.Greeting(ctx)
			if err != nil {
				return err
			}
			fmt.Println(greeting)
			fmt.Printf("\n(mode: %s)\n", current)
			return nil
		}

		result, err := c.Chat(ctx, message, mode)
		if err != nil {
			return err
		}
		fmt.Println(result.Reply)
		return nil
	})
}

func cmdReview(args []string) error {
	code, err := readCode(args, os.Stdin)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, c tutorClient) error {
		report, err := c.Review(ctx, code)
		if err != nil {
			return err
		}
		printReview(os.Stdout, report)
		return nil
	})
}

func printReview(w io.Writer, report *domain.ReviewReport) {
	fmt.Fprintf(w, "Score:       %d/%d %s\n", report.Score, domain.MaxReviewScore, renderProgressBar(float64(report.Score)/domain.MaxReviewScore, 20))
	fmt.Fprintf(w, "Performance: %s\n", report.Performance)
	fmt.Fprintf(w, "Readability: %s\n", report.Readability)

	if len(report.Suggestions) == 0 {
		fmt.Fprintln(w, "\nNo issues found.")
	} else {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range report.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	if report.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", report.Summary)
	}
	if report.Source != "" {
		fmt.Fprintf(w, "\n(source: %s)\n", report.Source)
	}
}

func cmdMetrics(args []string) error {
	code, err := readCode(args, os.Stdin)
	if err != nil {
		return err
	}

	return withClient(func(ctx context.Context, c tutorClient) error {
		m, err := c.Metrics(ctx, code)
		if err != nil {
			return err
		}
		fmt.Printf("Lines:       %d\n", m.Lines)
		fmt.Printf("Characters:  %d\n", m.Characters)
		fmt.Printf("Complexity:  %s\n", m.Complexity)
		fmt.Printf("Readability: %s\n", m.Readability)
		return nil
	})
}

func cmdMode(args []string) error {
	action := "get"
	if len(args) > 0 {
		action = args[0]
	}

	return withClient(func(ctx context.Context, c tutorClient) error {
		var mode domain.Mode
		var err error

		switch action {
		case "get":
			mode, err = c.Mode(ctx)
		case "set":
			if len(args) < 2 {
				return fmt.Errorf("mode required (normal or developer)")
			}
			mode, err = c.SetMode(ctx, args[1])
		case "toggle":
			mode, err = c.ToggleMode(ctx)
		default:
			return fmt.Errorf("unknown mode command: %s (valid: get, set, toggle)", action)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Mode: %s\n", mode)
		return nil
	})
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
