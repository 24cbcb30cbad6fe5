package main

import (
	"context"
	"fmt"
	"strings"
)

// cmdChallenge browses the challenge catalogue
func cmdChallenge(args []string) error {
	if len(args) < 1 {
		fmt.Println(`Challenge commands:

  devgenius challenge list [--difficulty d] [--language l]   List challenges
  devgenius challenge info <pack/slug>                       Show challenge details`)
		return nil
	}

	switch args[0] {
	case "list":
		difficulty, language, err := parseChallengeFilter(args[1:])
		if err != nil {
			return err
		}
		return cmdChallengeList(difficulty, language)
	case "info":
		if len(args) < 2 {
			return fmt.Errorf("challenge ID required (e.g., starter/reverse-string)")
		}
		return cmdChallengeInfo(args[1])
	default:
		return fmt.Errorf("unknown challenge command: %s", args[0])
	}
}

func parseChallengeFilter(args []string) (difficulty, language string, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--difficulty", "--language":
			if i+1 >= len(args) {
				return "", "", fmt.Errorf("%s needs a value", args[i])
			}
			if args[i] == "--difficulty" {
				difficulty = args[i+1]
			} else {
				language = args[i+1]
			}
			i++
		default:
			return "", "", fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return difficulty, language, nil
}

func cmdChallengeList(difficulty, language string) error {
	return withClient(func(ctx context.Context, c tutorClient) error {
		challenges, err := c.Challenges(ctx, difficulty, language)
		if err != nil {
			return err
		}
		if len(challenges) == 0 {
			fmt.Println("No challenges match.")
			return nil
		}

		fmt.Println("Coding Challenges:")
		for _, ch := range challenges {
			fmt.Printf("  %s (%s)\n", ch.Title, ch.ID)
			fmt.Printf("    %s | %s stars | %s | %s\n\n",
				ch.Difficulty, ch.Difficulty.StarRating(), ch.Difficulty.EstimatedTime(), ch.Language)
		}

		fmt.Println("Use 'devgenius challenge info <pack>/<slug>' for details")
		return nil
	})
}

func cmdChallengeInfo(id string) error {
	return withClient(func(ctx context.Context, c tutorClient) error {
		ch, err := c.Challenge(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("Challenge: %s\n\n", ch.Title)
		fmt.Printf("ID:         %s\n", ch.ID)
		fmt.Printf("Difficulty: %s (%s stars, %s)\n", ch.Difficulty, ch.Difficulty.StarRating(), ch.Difficulty.EstimatedTime())
		fmt.Printf("Language:   %s\n", ch.Language)
		if len(ch.Tags) > 0 {
			fmt.Printf("Tags:       %s\n", strings.Join(ch.Tags, ", "))
		}
		fmt.Printf("\nDescription:\n%s\n", ch.Description)
		fmt.Printf("\nStarter code:\n%s\n", ch.StarterCode)
		return nil
	})
}
