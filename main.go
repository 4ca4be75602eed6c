package main

import (
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/SandroNardi/wireless-client-graph/cache"
	"github.com/SandroNardi/wireless-client-graph/config"
	"github.com/SandroNardi/wireless-client-graph/diag"
	"github.com/SandroNardi/wireless-client-graph/log"
	"github.com/SandroNardi/wireless-client-graph/meraki"
	"github.com/SandroNardi/wireless-client-graph/metrics"
	"github.com/SandroNardi/wireless-client-graph/session"
	"github.com/SandroNardi/wireless-client-graph/status"
	"github.com/SandroNardi/wireless-client-graph/web"
)

const (
	exitOk = iota
	exitFailure
)

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	os.Exit(run(sigChan))
}

func run(closeSignal chan os.Signal) int {
	logger := log.NewLogger(os.Stderr, os.Stdout, log.Warn)
	logger.Reportf("service starting...")
	var configFile string
	flag.StringVar(&configFile, "c", "", "path to the configuration file")
	flag.Parse()

	conf, err := config.LoadConfigFromFileAndEnvironment(configFile)
	if err != nil {
		logger.Errorf("%s", err)
		return exitFailure
	}
	err = conf.Validate()
	if err != nil {
		logger.Errorf("%s", err)
		return exitFailure
	}

	// every log record is tee'd into the in-memory buffer backing the
	// dashboard's log panel
	buffer := log.NewBuffer()
	errWriter := io.MultiWriter(os.Stderr, buffer)
	outWriter := io.MultiWriter(os.Stdout, buffer)
	var logFile *os.File
	if conf.Log.FilePath != "" {
		logFile, err = os.OpenFile(conf.Log.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Errorf("failed to open log file %s: %s", conf.Log.FilePath, err)
			return exitFailure
		}
		defer func() { _ = logFile.Close() }()
		errWriter = io.MultiWriter(os.Stderr, buffer, logFile)
		outWriter = io.MultiWriter(os.Stdout, buffer, logFile)
	}
	logger = log.NewLogger(errWriter, outWriter, conf.Log.GetLevel())

	errorChan := make(chan error)

	statusReporter := status.NewReporter(&conf)

	var metricsHandler metrics.Handler
	if conf.Diag.Metrics.Enabled {
		metricsHandler = metrics.NewHandler()
	}

	var diagServer *diag.Server
	if conf.Diag.Enabled && (conf.Diag.Metrics.Enabled || conf.Diag.Status.Enabled) {
		diagServer = diag.NewServer(&conf.Diag, statusReporter, metricsHandler, logger, errorChan)
		diagServer.Listen()
	}

	cacheStore, err := cache.SetupExternalCache(&conf.Cache, logger)
	if err != nil {
		logger.Errorf("%s", err)
		return exitFailure
	}

	var transport http.RoundTripper = http.DefaultTransport
	if metricsHandler != nil {
		transport = metrics.Intercept(metricsHandler, transport)
	}
	transport = status.InterceptUpstream(statusReporter, transport)

	client := meraki.NewClient(&conf.Meraki, transport, logger)
	sessions := session.NewManager(&conf.Meraki, client, cacheStore, statusReporter, logger)

	router := web.NewRouter(sessions, buffer, metricsHandler, &conf.Http, logger)

	httpServer, err := web.NewServer(router.Handler(), logger, &conf, errorChan)
	if err != nil {
		return exitFailure
	}
	httpServer.Listen()

	for {
		select {
		case <-closeSignal:
			router.Close()
			sessions.Close()
			if cacheStore != nil {
				cacheStore.Shutdown()
			}

			shutDownCount := 1
			if diagServer != nil {
				shutDownCount++
			}
			wg := sync.WaitGroup{}
			wg.Add(shutDownCount)
			go func() {
				httpServer.Shutdown()
				wg.Done()
			}()
			if diagServer != nil {
				go func() {
					diagServer.Shutdown()
					wg.Done()
				}()
			}
			wg.Wait()
			return exitOk
		case err = <-errorChan:
			logger.Errorf("%s", err)
			return exitFailure
		}
	}
}
