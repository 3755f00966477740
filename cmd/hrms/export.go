package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/hrms/internal/export"
	"github.com/alfredjeanlab/hrms/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Export every page of a resource to CSV or JSONL",
	Long: `Walk every page of a resource and write it to a file, stdout or S3.

The output path and S3 key may contain {time}, replaced by the UTC export
time. With --every the export repeats until interrupted.`,
	Example: `  hrms export employees --format csv --out employees.csv
  hrms export leaves --status pending --format jsonl --out -
  hrms export designations --s3-key exports/designations-{time}.jsonl --every 1h`,
	GroupID:           "views",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: resourceNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findResource(args[0])
		if err != nil {
			return err
		}
		f, err := listFilters(cmd, nil)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		formatName, _ := flags.GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		out, _ := flags.GetString("out")
		s3Key, _ := flags.GetString("s3-key")
		s3Bucket, _ := flags.GetString("s3-bucket")
		if s3Bucket == "" {
			s3Bucket = cfg.ExportS3Bucket
		}
		maxPages, every, err := exportBounds(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if out == "" && s3Key == "" {
			out = r.resourceName() + "." + format.Ext()
		}
		var dests []export.Destination
		switch out {
		case "":
		case "-":
			dests = append(dests, export.NewWriterDestination(cmd.OutOrStdout()))
		default:
			dests = append(dests, export.NewFileDestination(out))
		}
		if s3Key != "" {
			d, err := export.NewS3Destination(ctx, s3Bucket, s3Key, cfg.ExportS3Region, cfg.ExportS3Endpoint, format.ContentType())
			if err != nil {
				return err
			}
			dests = append(dests, d)
		}

		build := func(ctx context.Context) ([]byte, error) {
			ds, err := r.collect(ctx, hrClient, f, maxPages)
			if err != nil {
				return nil, fmt.Errorf("collecting %s: %w", r.resourceName(), err)
			}
			logger.Debug("collected", "resource", r.resourceName(), "records", ds.Len())
			return export.Encode(ds, format)
		}
		sched := export.NewScheduler(build, dests, every, logger)

		if every == 0 {
			start := time.Now()
			if err := sched.RunOnce(ctx); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %s in %s\n", ui.RenderOK("✓"), r.resourceName(), time.Since(start).Round(time.Millisecond))
			}
			return nil
		}

		logger.Info("scheduled export", "resource", r.resourceName(), "every", every)
		sched.Start(ctx)
		defer sched.Stop()
		sched.Wait()
		return nil
	},
}

// exportBounds reads --max-pages and --every. Zero means no page limit and
// a single run respectively; negative values are rejected.
func exportBounds(cmd *cobra.Command) (maxPages int, every time.Duration, err error) {
	flags := cmd.Flags()
	maxPages, _ = flags.GetInt("max-pages")
	if maxPages < 0 {
		return 0, 0, fmt.Errorf("invalid --max-pages %d (must be 0 or more)", maxPages)
	}
	every, _ = flags.GetDuration("every")
	if every < 0 {
		return 0, 0, fmt.Errorf("invalid --every %s (must be positive)", every)
	}
	return maxPages, every, nil
}

func init() {
	addListFlags(exportCmd, nil)
	exportCmd.Flags().String("format", "csv", "output format: csv or jsonl")
	exportCmd.Flags().String("out", "", "output file, or - for stdout (default <resource>.<format>)")
	exportCmd.Flags().String("s3-key", "", "also upload to this S3 object key")
	exportCmd.Flags().String("s3-bucket", "", "S3 bucket (default $HRMS_EXPORT_S3_BUCKET)")
	exportCmd.Flags().Int("max-pages", 0, "stop after this many pages (0 = all)")
	exportCmd.Flags().Duration("every", 0, "repeat the export at this interval")
}
