// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/saffron-finance/sfi-farm/admin"
	"github.com/saffron-finance/sfi-farm/api"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/cmd/farm/httpserver"
	"github.com/saffron-finance/sfi-farm/cmd/farm/solo"
	"github.com/saffron-finance/sfi-farm/health"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "sfi-farm",
		Usage:   "Standalone node of the SFI liquidity mining farm",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			apiBacktraceLimitFlag,
			enableAPILogsFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)

	interval := ctx.Uint64(blockIntervalFlag.Name)
	if interval == 0 {
		return fmt.Errorf("-%s must be greater than zero", blockIntervalFlag.Name)
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var dataDir string
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx, gene); err != nil {
			return err
		}
	}

	mainDB, err := openChainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing chain database...")
		if err := mainDB.Close(); err != nil {
			logger.Warn("failed to close chain database", "err", err)
		}
	}()

	eventDB, err := openEventDB(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("closing event database...")
		if err := eventDB.Close(); err != nil {
			logger.Warn("failed to close event database", "err", err)
		}
	}()

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	farmChain, err := chain.New(mainDB, eventDB, gene)
	if err != nil {
		return err
	}
	best := farmChain.BestBlock()
	logger.Info("chain ready", "genesis", farmChain.GenesisName(), "best", best.Number, "persist", dataDir != "")

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(exitCtx)
	sealing := health.New(3 * time.Duration(interval) * time.Second)

	apiHandler, apiClose := api.New(farmChain, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   enableMetrics,
		Health:          sealing,
	})
	apiSrv, err := httpserver.Listen(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	logger.Info("API server started", "url", apiSrv.URL())
	group.Go(apiSrv.Serve)

	servers := []*httpserver.Server{apiSrv}
	if enableMetrics {
		metricsSrv, err := httpserver.ListenMetrics(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiSrv.Close()
			return err
		}
		logger.Info("metrics server started", "url", metricsSrv.URL()+"/metrics")
		group.Go(metricsSrv.Serve)
		servers = append(servers, metricsSrv)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		adminSrv, err := httpserver.Listen(ctx.String(adminAddrFlag.Name), admin.HTTPHandler(logLevel))
		if err != nil {
			for _, srv := range servers {
				srv.Close()
			}
			return err
		}
		logger.Info("admin server started", "url", adminSrv.URL()+"/admin")
		group.Go(adminSrv.Serve)
		servers = append(servers, adminSrv)
	}

	group.Go(func() error {
		return solo.New(farmChain, sealing, solo.Options{BlockInterval: interval}).Run(groupCtx)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shut down server", "url", srv.URL(), "err", err)
			}
		}
		apiClose()
		return nil
	})

	return group.Wait()
}
