package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/rag"
)

var (
	askSources    []string
	askExt        string
	askK          int
	askStandalone bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.engine.Ask(ctx, rag.AskRequest{
			Question:   strings.Join(args, " "),
			Sources:    askSources,
			Ext:        askExt,
			K:          askK,
			Standalone: askStandalone,
		})
		if err != nil {
			return err
		}

		printAnswer(resp)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed documents without generating an answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		matches, err := a.engine.Search(ctx, rag.SearchRequest{
			Query:   strings.Join(args, " "),
			Sources: askSources,
			Ext:     askExt,
			K:       askK,
		})
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for i, match := range matches {
			fmt.Printf("[%d] %s (chunk %d, score %.3f)\n", i+1, match.Name, match.ChunkIndex, match.Score)
			if match.Page > 0 {
				fmt.Printf("    page %d\n", match.Page)
			}
			fmt.Printf("    %s\n\n", truncate(match.Text, 200))
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long:  `Start an interactive session. Each line is answered independently. Type "exit" or press Ctrl-D to leave.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("Ask questions about your documents. Type \"exit\" to leave.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				return nil
			}

			resp, err := a.engine.Ask(ctx, rag.AskRequest{Question: question})
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			printAnswer(resp)
		}
	},
}

func printAnswer(resp rag.AskResponse) {
	fmt.Println(resp.Answer)
	if len(resp.References) > 0 {
		fmt.Println("\nSources:")
		for _, ref := range resp.References {
			if ref.Page > 0 {
				fmt.Printf("  - %s (page %d, chunk %d)\n", ref.Name, ref.Page, ref.ChunkIndex)
			} else {
				fmt.Printf("  - %s (chunk %d)\n", ref.Name, ref.ChunkIndex)
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	for _, cmd := range []*cobra.Command{askCmd, searchCmd} {
		cmd.Flags().StringSliceVar(&askSources, "source", nil, "restrict to documents at these absolute paths")
		cmd.Flags().StringVar(&askExt, "ext", "", `restrict to documents with this extension (".pdf", ".txt", ".md")`)
		cmd.Flags().IntVar(&askK, "k", 0, "number of chunks to retrieve (0 = auto)")
	}
	askCmd.Flags().BoolVar(&askStandalone, "standalone", false, "answer without document context")
}
