package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"bondmatch/internal/app"
	"bondmatch/internal/config"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/exporter"
	"bondmatch/internal/files"
	"bondmatch/internal/infrastructure"
	"bondmatch/internal/matching"
	"bondmatch/internal/services"
	"bondmatch/internal/validation"
	"bondmatch/pkg/contracts"
	"bondmatch/pkg/contracts/domain"
)

// cliLogLevel keeps offline commands quiet unless --log-level asks otherwise
const cliLogLevel = "warn"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "bondmatch",
		Short:         "Find comparable municipal bonds for a hypothetical issue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newRegionsCmd(opts),
		newLevelsCmd(),
		newCurveCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApplication(opts.configPath, opts.logLevel)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
}

// offline holds what a one-shot command needs: a config and a bond
// service with no-op telemetry
type offline struct {
	cfg     *config.Config
	paths   *config.Paths
	service *services.BondService
	logger  *slog.Logger
}

func (o *rootOptions) offline(cmd *cobra.Command) (*offline, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.Output = "console"
	logCfg.Format = "text"
	logCfg.Level = cliLogLevel
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	logger, err := infrastructure.NewLogger(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	providers := infrastructure.NoopProviders(logger)
	service := services.NewBondService(services.BondServiceOptions{
		Classifier:        matching.NewRegionClassifier(cfg.Matching.HighTierRegions, cfg.Matching.LowTierRegions),
		RecentTradingDays: cfg.Dataset.RecentTradingDays,
		MaxUploadBytes:    cfg.Dataset.MaxUploadBytes,
		Tracer:            providers.Tracer,
		Logger:            logger,
	})

	return &offline{cfg: cfg, paths: paths, service: service, logger: logger}, nil
}

// load reads file, or the configured default, or the newest dataset in
// the data directory
func (o *offline) load(cmd *cobra.Command, file string) error {
	path := file
	if path == "" {
		path = o.paths.ResolveFile(o.cfg.Dataset.DefaultFile)
	}
	if path == "" {
		latest, ok, err := files.NewDiscovery(o.paths.BaseDir).LatestDatasetFile(o.paths.DataDir)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no dataset given, use --file: %w",
				apperrors.NewNotFoundError(fmt.Sprintf("dataset in %s", o.paths.DataDir)))
		}
		path = latest.Path
	}

	summary, err := o.service.LoadDataset(cmd.Context(), path)
	if err != nil {
		return err
	}
	o.logger.InfoContext(cmd.Context(), "Dataset ready", slog.String("file", path), slog.Int("records", summary.Records))
	return nil
}

// exportPath places a bare file name under the exports directory and makes
// sure the target directory is writable. The extension picks the format.
func (o *offline) exportPath(out string) (string, error) {
	if _, err := exporter.FormatFromPath(out); err != nil {
		return "", apperrors.NewAppValidationError(err.Error())
	}
	path := out
	if filepath.Dir(out) == "." {
		path = o.paths.ExportPath(out)
	}
	if err := validation.NewFileValidator(o.logger).ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, nil
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		region string
		out    string
		target domain.TargetAttributes
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find bonds similar to the described target",
		Example: `  bondmatch search --file bonds.xlsx --region 浙江 --term 5 --coupon 3.2 \
    --category 专项 --issue-year 2021 --tax 否 --out matches.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.offline(cmd)
			if err != nil {
				return err
			}
			exportTo := ""
			if out != "" {
				if exportTo, err = env.exportPath(out); err != nil {
					return err
				}
			}
			if err := env.load(cmd, file); err != nil {
				return err
			}

			result, err := env.service.Search(cmd.Context(), target, region)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(result.Matches))
			for _, b := range result.Matches {
				rows = append(rows, exporter.DisplayRow(b))
			}
			w := cmd.OutOrStdout()
			writeSearchResult(w, result, rows, exporter.DisplayHeaders)

			if exportTo != "" && !result.Exhausted {
				if err := exporter.WriteFile(exportTo, result); err != nil {
					return fmt.Errorf("export %s: %w", exportTo, err)
				}
				fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("已导出 %d 条 → %s", result.MatchCount, exportTo)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "dataset file (.csv, .xlsx, .xlsm)")
	f.StringVar(&region, "region", "", "issuing region, full or partial name")
	f.Float64Var(&target.Term, "term", 0, "remaining term in years")
	f.Float64Var(&target.Coupon, "coupon", 0, "coupon rate in percent")
	f.StringVar(&target.Category, "category", "", "bond category, e.g. 专项 or 一般")
	f.IntVar(&target.IssueYear, "issue-year", 0, "issue year")
	f.StringVar(&target.TaxStatus, "tax", "", "tax status, e.g. 是 or 否")
	f.StringVar(&out, "out", "", "write matches to a .csv or .xlsx file; a bare name goes to the exports directory")
	for _, name := range []string{"region", "term", "coupon", "category", "issue-year", "tax"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newRegionsCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions in a dataset with their tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.offline(cmd)
			if err != nil {
				return err
			}
			if err := env.load(cmd, file); err != nil {
				return err
			}
			regions, err := env.service.Regions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"区域", "评级"}, regionRows(regions)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "dataset file (.csv, .xlsx, .xlsm)")
	return cmd
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the tolerance levels tried by a search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"级别", "名称", "剩余年限", "票面", "专项一般一致"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, levelRows(matching.DefaultToleranceTable().Levels())))
			return nil
		},
	}
}

func newCurveCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		points bool
	)
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Fit yield against remaining term for the latest trade date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.offline(cmd)
			if err != nil {
				return err
			}
			if err := env.load(cmd, file); err != nil {
				return err
			}
			curve, err := env.service.Curve(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styles.Title.Render("市场收益率曲线"))
			field(w, "日期", curve.TradeDate.Format("2006-01-02"))
			field(w, "样本", fmt.Sprintf("%d", len(curve.Points)))
			if curve.Fitted {
				field(w, "回归", fmt.Sprintf("收益率 = %.4f + %.4f × 剩余年限", curve.Intercept, curve.Slope))
			} else {
				field(w, "回归", styles.Warn.Render("样本不足，无法拟合"))
			}
			if points {
				headers := []string{"债券代码", "债券名称", "剩余年限", "收盘收益率", "评级", "是否交税"}
				fmt.Fprintln(w, renderTable(headers, curveRows(curve.Points)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "dataset file (.csv, .xlsx, .xlsm)")
	cmd.Flags().BoolVar(&points, "points", false, "also list every point on the curve")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}
