// marketgate-fetch runs one market data query and prints the public JSON body.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"MarketGate/internal/di"
	domsvc "MarketGate/internal/domain/service"
	"MarketGate/internal/handler/api"
	"MarketGate/internal/usecase"
	"MarketGate/pkg/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	strategy   string
	start      string
	end        string
)

type pipeline struct {
	market   *usecase.MarketDataUseCase
	universe domsvc.UniverseResolver
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "marketgate-fetch",
		Short:         "Query market data without running the HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "upstream strategy override: http or library")

	rootCmd.AddCommand(ohlcvCmd())
	rootCmd.AddCommand(actionsCmd("dividends"))
	rootCmd.AddCommand(actionsCmd("splits"))
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(universeCmd())

	// Ctrl-C cancels the in-flight upstream call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD")
}

func ohlcvCmd() *cobra.Command {
	var (
		adjust bool
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "ohlcv SYMBOL",
		Short: "Print daily bars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			res, err := rt.market.GetBars(cmd.Context(), usecase.GetBarsParams{
				Symbol: args[0],
				Start:  start,
				End:    end,
				Adjust: adjust,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewOHLCVResponse(res))
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().BoolVar(&adjust, "adjust", false, "adjust prices for splits and dividends")
	cmd.Flags().IntVar(&limit, "limit", usecase.MaxLimit, "maximum bars to print")
	cmd.Flags().IntVar(&offset, "offset", 0, "bars to skip")
	return cmd
}

func actionsCmd(kind string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind + " SYMBOL",
		Short: "Print " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			p := usecase.GetActionsParams{Symbol: args[0], Start: start, End: end}
			if kind == "splits" {
				res, err := rt.market.GetSplits(cmd.Context(), p)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), api.NewSplitsResponse(res))
			}
			res, err := rt.market.GetDividends(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewDividendsResponse(res))
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info SYMBOL",
		Short: "Print instrument metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			res, err := rt.market.GetInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewInfoResponse(res))
		},
	}
}

func universeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "universe [MARKET]",
		Short: "Print a market's symbols, or the known markets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), map[string][]string{"markets": rt.universe.Markets()})
			}
			u, err := rt.universe.Resolve(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewUniverseResponse(u))
		},
	}
}

// setup builds the pipeline from config. Logs go to stderr so stdout stays JSON.
func setup() (*pipeline, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, err
	}
	if strategy != "" {
		cfg.Upstream.Strategy = strategy
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Log.Output = "stderr"
	cfg.Log.Format = "console"

	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	u, err := di.ProvideUniverse(cfg, logger)
	if err != nil {
		return nil, err
	}
	httpClient := di.ProvideHTTPClient(cfg)
	source := di.ProvideMarketData(cfg, httpClient, di.ProvideYahooClient(httpClient, cfg, logger), logger)
	uc := di.ProvideMarketDataUseCase(source, di.ProvideSymbolNormalizer(), nil, logger)
	return &pipeline{market: uc, universe: u}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
