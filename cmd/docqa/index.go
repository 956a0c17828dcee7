package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index all documents in the documents directory",
	Long: `Scan the documents directory and index every supported file (.pdf, .txt, .md).
Unchanged files are skipped unless --force is given. Tracking records for
files deleted from disk are cleaned up.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.pipeline.IndexAll(ctx, indexForce)
		if summary != nil {
			fmt.Printf("Scanned:  %d\n", summary.FilesScanned)
			fmt.Printf("Indexed:  %d (%d new, %d modified)\n", summary.FilesIndexed, summary.FilesNew, summary.FilesModified)
			fmt.Printf("Skipped:  %d\n", summary.FilesSkipped)
			fmt.Printf("Removed:  %d\n", summary.FilesRemoved)
			fmt.Printf("Chunks:   %d\n", summary.ChunksIndexed)
			if summary.FilesFailed > 0 {
				fmt.Printf("Failed:   %d\n", summary.FilesFailed)
			}
		}
		return err
	},
}

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Index a single document file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		chunks, status, err := a.pipeline.IndexFile(ctx, path, indexForce)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s (%d chunks)\n", path, status, chunks)
		return nil
	},
}

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed data",
	Long:  `Remove every tracked file, its chunks, and their vector store points. Source documents on disk are not touched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !clearYes {
			fmt.Print("This removes all indexed data. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.pipeline.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("Index cleared.")
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index files even if unchanged")
	fileCmd.Flags().BoolVar(&indexForce, "force", false, "re-index the file even if unchanged")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}
