package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xtra/internal/extract"
	"xtra/internal/shared/config"
)

type extractor func(ctx context.Context, data []byte) (any, error)

func extractCommands(cfg config.Config, f extract.Factories) []*cobra.Command {
	return []*cobra.Command{
		extractCommand(cfg, "text", "Extract the embedded text layer per page", func(ctx context.Context, data []byte) (any, error) {
			return f.Text().ExtractText(ctx, data)
		}),
		extractCommand(cfg, "ocr", "Recognize page text with OCR", func(ctx context.Context, data []byte) (any, error) {
			return f.OCR().ExtractText(ctx, data)
		}),
		extractCommand(cfg, "table", "Detect tables", func(ctx context.Context, data []byte) (any, error) {
			return f.Table().ExtractTables(ctx, data)
		}),
		extractCommand(cfg, "meta", "Read document metadata", func(ctx context.Context, data []byte) (any, error) {
			return f.Metadata().ExtractMetadata(ctx, data)
		}),
	}
}

func extractCommand(cfg config.Config, name, short string, fn extractor) *cobra.Command {
	var (
		encoding string
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   name + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			data, err := extract.DecodePayload(raw, encoding)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if cfg.ExtractTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ExtractTimeout)
				defer cancel()
			}

			result, err := fn(ctx, data)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(emptyIfNil(result))
		},
	}
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "transfer encoding of the file (binary|base64)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent JSON output")
	return cmd
}

func emptyIfNil(v any) any {
	switch items := v.(type) {
	case []extract.TextExtract:
		if items == nil {
			return []extract.TextExtract{}
		}
	case []extract.TableExtract:
		if items == nil {
			return []extract.TableExtract{}
		}
	case []extract.Metadata:
		if items == nil {
			return []extract.Metadata{}
		}
	}
	return v
}
