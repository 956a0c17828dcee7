package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"docqa/internal/indexer"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Documents path:  %s\n", a.scanner.Root())
		fmt.Printf("Answer model:    %s\n", a.cfg.AnthropicModel)
		fmt.Printf("Embedding model: %s\n", a.cfg.EmbeddingModelName)

		info, err := a.vectorStore.GetCollectionInfo(ctx, a.cfg.QdrantCollection)
		if err != nil {
			fmt.Printf("Collection:      %s (unavailable: %v)\n", a.cfg.QdrantCollection, err)
		} else {
			fmt.Printf("Collection:      %s (%d points, vector size %d, %s)\n",
				a.cfg.QdrantCollection, info.PointsCount, info.VectorSize, info.Status)
		}

		stats, err := a.pipeline.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Tracked files:   %d (%s)\n", stats.TotalFiles, indexer.FormatSize(stats.TotalSize))
		fmt.Printf("Stored chunks:   %d\n", stats.TotalChunks)

		if len(stats.Extensions) > 0 {
			exts := make([]string, 0, len(stats.Extensions))
			for ext := range stats.Extensions {
				exts = append(exts, ext)
			}
			sort.Strings(exts)
			fmt.Println("By extension:")
			for _, ext := range exts {
				fmt.Printf("  %-6s %d\n", ext, stats.Extensions[ext])
			}
		}

		if stats.TotalChunks > 0 {
			fmt.Printf("Chunk tokens:    min %d, max %d, mean %.1f, p95 %d\n",
				stats.ChunkTokens.Min, stats.ChunkTokens.Max, stats.ChunkTokens.Mean, stats.ChunkTokens.P95)
		}
		return nil
	},
}
